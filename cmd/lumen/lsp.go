package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lumen/internal/lsp"
	"lumen/internal/project"
)

var lspCmd = &cobra.Command{
	Use:          "lsp",
	Short:        "Run the Lumen language server over stdio",
	SilenceUsage: true,
	RunE:         runLSP,
}

func runLSP(cmd *cobra.Command, _ []string) error {
	opts := lsp.ServerOptions{}
	if manifest, ok, err := project.LoadManifest("."); err == nil && ok {
		opts.Disabled = manifest.Config.Assists.Disabled
		cache, cacheErr := project.OpenIndexCache("lumen")
		if cacheErr != nil {
			cache = nil
		}
		if index, err := project.LoadIndex(manifest.SourceRoot(), cache); err == nil {
			opts.Index = index
		}
	}

	server := lsp.NewServer(os.Stdin, os.Stdout, opts)
	if err := server.Run(cmd.Context()); err != nil {
		if errors.Is(err, lsp.ErrExit) {
			return nil
		}
		if errors.Is(err, lsp.ErrExitWithoutShutdown) {
			return fmt.Errorf("lsp exit without shutdown")
		}
		return err
	}
	return nil
}
