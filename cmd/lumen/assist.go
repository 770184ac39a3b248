package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"lumen/internal/assist"
	"lumen/internal/assists"
	"lumen/internal/edit"
	"lumen/internal/engine"
	"lumen/internal/project"
	"lumen/internal/source"
	"lumen/internal/ui"
)

var assistCmd = &cobra.Command{
	Use:   "assist [flags] <file.lum>",
	Short: "List or apply structural assists at a position",
	Long: "Run the assist handlers against a position or selection. Without --id or --pick\n" +
		"only the available assists are listed; the edit is never computed for a listing.",
	Args: cobra.ExactArgs(1),
	RunE: runAssist,
}

func init() {
	assistCmd.Flags().Uint32("at", 0, "byte offset of the cursor")
	assistCmd.Flags().String("span", "", "selection as start:end byte offsets")
	assistCmd.Flags().String("id", "", "apply the assist with this identifier")
	assistCmd.Flags().Bool("pick", false, "choose an assist interactively")
	assistCmd.Flags().Bool("write", false, "write the result back to the file")
}

func runAssist(cmd *cobra.Command, args []string) error {
	path := args[0]

	targetID, err := cmd.Flags().GetString("id")
	if err != nil {
		return err
	}
	pick, err := cmd.Flags().GetBool("pick")
	if err != nil {
		return err
	}
	write, err := cmd.Flags().GetBool("write")
	if err != nil {
		return err
	}
	if targetID != "" && pick {
		return fmt.Errorf("--id cannot be combined with --pick")
	}
	if pick && !isTerminal(os.Stdout) {
		return fmt.Errorf("--pick requires a terminal")
	}

	frange, err := targetRange(cmd)
	if err != nil {
		return err
	}

	eng, file, err := buildEngine(path)
	if err != nil {
		return err
	}
	frange.File = file.ID
	if frange.End > uint32(len(file.Content)) {
		return fmt.Errorf("assist: range %s out of file bounds", frange)
	}

	switch {
	case targetID != "":
		return applyAssist(cmd, eng, file, frange, assist.ID(targetID), write)
	case pick:
		labels, err := eng.List(cmd.Context(), frange)
		if err != nil {
			return err
		}
		label, chosen, err := ui.Pick("Assists", labels)
		if err != nil {
			return err
		}
		if !chosen {
			return nil
		}
		return applyAssist(cmd, eng, file, frange, label.ID, write)
	default:
		return listAssists(cmd, eng, frange)
	}
}

// targetRange reads --at/--span into a file-relative span.
func targetRange(cmd *cobra.Command) (source.Span, error) {
	spanArg, err := cmd.Flags().GetString("span")
	if err != nil {
		return source.Span{}, err
	}
	if spanArg != "" {
		parts := strings.SplitN(spanArg, ":", 2)
		if len(parts) != 2 {
			return source.Span{}, fmt.Errorf("invalid --span %q (must be start:end)", spanArg)
		}
		start, err := strconv.ParseUint(parts[0], 10, 32)
		if err != nil {
			return source.Span{}, fmt.Errorf("invalid --span start: %w", err)
		}
		end, err := strconv.ParseUint(parts[1], 10, 32)
		if err != nil {
			return source.Span{}, fmt.Errorf("invalid --span end: %w", err)
		}
		if end < start {
			return source.Span{}, fmt.Errorf("invalid --span %q: end before start", spanArg)
		}
		return source.Span{Start: uint32(start), End: uint32(end)}, nil
	}
	at, err := cmd.Flags().GetUint32("at")
	if err != nil {
		return source.Span{}, err
	}
	return source.Span{Start: at, End: at}, nil
}

// buildEngine loads the file and wires the engine with the project
// manifest and symbol index when a lumen.toml governs the file.
func buildEngine(path string) (*engine.Engine, *source.File, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("assist: %w", err)
	}

	var disabled []string
	var index *project.Index
	manifest, ok, err := project.LoadManifest(filepath.Dir(path))
	if err != nil {
		return nil, nil, err
	}
	if ok {
		disabled = manifest.Config.Assists.Disabled
		cache, cacheErr := project.OpenIndexCache("lumen")
		if cacheErr != nil {
			// кэш опционален, индекс строим без него
			cache = nil
		}
		index, err = project.LoadIndex(manifest.SourceRoot(), cache)
		if err != nil {
			return nil, nil, err
		}
	}

	db := engine.NewDatabase(fs)
	eng := engine.New(db, assists.All(index), engine.Options{Disabled: disabled})
	return eng, fs.Get(id), nil
}

func listAssists(cmd *cobra.Command, eng *engine.Engine, frange source.Span) error {
	labels, err := eng.List(cmd.Context(), frange)
	if err != nil {
		return err
	}
	if len(labels) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No assists available at this position.")
		return nil
	}
	for _, label := range labels {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", label.ID, label.Label)
	}
	return nil
}

func applyAssist(cmd *cobra.Command, eng *engine.Engine, file *source.File, frange source.Span, id assist.ID, write bool) error {
	res, err := eng.Resolve(frange, id)
	if err != nil {
		return err
	}

	action, err := chooseAction(res)
	if err != nil {
		return err
	}
	updated, err := edit.Apply(file.Content, action.Edits)
	if err != nil {
		return fmt.Errorf("assist: %w", err)
	}

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	if write {
		if err := os.WriteFile(file.Path, updated, 0o644); err != nil {
			return fmt.Errorf("assist: %w", err)
		}
		if !quiet {
			title := action.Label
			if title == "" {
				title = res.Label.Label
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %s [%s] to %s (%d edits)\n",
				title, res.Label.ID, file.Path, len(action.Edits))
		}
		return nil
	}
	_, err = cmd.OutOrStdout().Write(updated)
	return err
}

// chooseAction picks the concrete action of a resolved assist. Group
// results offer alternatives; interactively the user picks one, else
// the first (best ranked) action wins.
func chooseAction(res *assist.Assist) (assist.Action, error) {
	actions := res.Actions()
	if len(actions) == 0 {
		return assist.Action{}, fmt.Errorf("assist: %q resolved to no actions", res.Label.ID)
	}
	if len(actions) == 1 || !isTerminal(os.Stdout) {
		return actions[0], nil
	}
	labels := make([]assist.Label, 0, len(actions))
	for i, action := range actions {
		title := action.Label
		if title == "" {
			title = fmt.Sprintf("%s (variant %d)", res.Label.Label, i+1)
		}
		labels = append(labels, assist.Label{ID: assist.ID(strconv.Itoa(i)), Label: title})
	}
	picked, chosen, err := ui.Pick(res.Label.Label, labels)
	if err != nil {
		return assist.Action{}, err
	}
	if !chosen {
		return assist.Action{}, fmt.Errorf("assist: cancelled")
	}
	idx, err := strconv.Atoi(string(picked.ID))
	if err != nil || idx < 0 || idx >= len(actions) {
		return assist.Action{}, fmt.Errorf("assist: invalid pick")
	}
	return actions[idx], nil
}
