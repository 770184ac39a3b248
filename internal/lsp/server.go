// Package lsp serves the assist engine over stdio JSON-RPC. Code
// actions follow the protocol's two phases directly: textDocument/
// codeAction runs the cheap check pass and returns titles only, and
// codeAction/resolve recomputes the chosen assist into a workspace
// edit against the document as it is at resolve time.
package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"lumen/internal/assist"
	"lumen/internal/assists"
	"lumen/internal/engine"
	"lumen/internal/parser"
	"lumen/internal/project"
	"lumen/internal/source"
)

var (
	// ErrExit signals a graceful shutdown after receiving "exit".
	ErrExit = errors.New("lsp exit")
	// ErrExitWithoutShutdown signals an "exit" without a preceding "shutdown".
	ErrExitWithoutShutdown = errors.New("lsp exit without shutdown")
)

// ServerOptions configures LSP server behavior.
type ServerOptions struct {
	// Disabled lists assist ids never offered to the client.
	Disabled []string
	// Index supplies import candidates; nil disables auto-import.
	Index *project.Index
}

// Server handles stdio JSON-RPC for the Lumen LSP.
type Server struct {
	in     *bufio.Reader
	out    *bufio.Writer
	sendMu sync.Mutex

	mu                sync.Mutex
	openDocs          map[string]string
	versions          map[string]int
	shutdownRequested bool

	disabled []string
	index    *project.Index
	baseCtx  context.Context
}

// NewServer constructs a new LSP server.
func NewServer(in io.Reader, out io.Writer, opts ServerOptions) *Server {
	return &Server{
		in:       bufio.NewReader(in),
		out:      bufio.NewWriter(out),
		openDocs: make(map[string]string),
		versions: make(map[string]int),
		disabled: opts.Disabled,
		index:    opts.Index,
	}
}

// Run serves LSP requests until shutdown.
func (s *Server) Run(ctx context.Context) error {
	s.baseCtx = ctx
	for {
		payload, err := readMessage(s.in)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.logf("failed to parse message: %v", err)
			continue
		}
		if msg.Method == "" {
			continue
		}
		if err := s.handleMessage(&msg); err != nil {
			return err
		}
	}
}

func (s *Server) handleMessage(msg *rpcMessage) error {
	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		return nil
	case "shutdown":
		s.mu.Lock()
		s.shutdownRequested = true
		s.mu.Unlock()
		return s.sendResponse(msg.ID, nil)
	case "exit":
		if s.shutdownRequested {
			return ErrExit
		}
		return ErrExitWithoutShutdown
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)
	case "textDocument/codeAction":
		return s.handleCodeAction(msg)
	case "codeAction/resolve":
		return s.handleCodeActionResolve(msg)
	default:
		if len(msg.ID) > 0 {
			return s.sendError(msg.ID, -32601, "method not found")
		}
		return nil
	}
}

func (s *Server) handleInitialize(msg *rpcMessage) error {
	var params initializeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, -32602, "invalid params")
		}
	}
	result := initializeResult{
		Capabilities: serverCapabilities{
			TextDocumentSync: textDocumentSyncOptions{
				OpenClose: true,
				Change:    2,
			},
			CodeActionProvider: &codeActionProviderOptions{
				CodeActionKinds: []string{"refactor"},
				ResolveProvider: true,
			},
		},
	}
	return s.sendResponse(msg.ID, result)
}

func (s *Server) handleDidOpen(msg *rpcMessage) error {
	var params didOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := params.TextDocument.URI
	if uri == "" {
		return nil
	}
	s.mu.Lock()
	s.openDocs[uri] = params.TextDocument.Text
	s.versions[uri] = params.TextDocument.Version
	s.mu.Unlock()
	return s.publishParseDiagnostics(uri)
}

func (s *Server) handleDidChange(msg *rpcMessage) error {
	var params didChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := params.TextDocument.URI
	if uri == "" {
		return nil
	}
	s.mu.Lock()
	text := applyChanges(s.openDocs[uri], params.ContentChanges)
	s.openDocs[uri] = text
	s.versions[uri] = params.TextDocument.Version
	s.mu.Unlock()
	return s.publishParseDiagnostics(uri)
}

func (s *Server) handleDidClose(msg *rpcMessage) error {
	var params didCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := params.TextDocument.URI
	s.mu.Lock()
	delete(s.openDocs, uri)
	delete(s.versions, uri)
	s.mu.Unlock()
	return s.sendPublish(uri, nil)
}

func (s *Server) handleCodeAction(msg *rpcMessage) error {
	var params codeActionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, -32602, "invalid params")
	}
	eng, file, ok := s.engineFor(params.TextDocument.URI)
	if !ok {
		return s.sendResponse(msg.ID, []codeAction{})
	}

	labels, err := eng.List(s.ctx(), spanForRange(file, params.Range))
	if err != nil {
		return s.sendError(msg.ID, -32603, err.Error())
	}
	actions := make([]codeAction, 0, len(labels))
	for _, label := range labels {
		actions = append(actions, codeAction{
			Title: label.Label,
			Kind:  "refactor",
			Data: &codeActionData{
				URI:   params.TextDocument.URI,
				Range: params.Range,
				ID:    string(label.ID),
			},
		})
	}
	return s.sendResponse(msg.ID, actions)
}

func (s *Server) handleCodeActionResolve(msg *rpcMessage) error {
	var action codeAction
	if err := json.Unmarshal(msg.Params, &action); err != nil || action.Data == nil {
		return s.sendError(msg.ID, -32602, "invalid params")
	}
	eng, file, ok := s.engineFor(action.Data.URI)
	if !ok {
		return s.sendError(msg.ID, -32602, "unknown document")
	}

	res, err := eng.Resolve(spanForRange(file, action.Data.Range), assist.ID(action.Data.ID))
	if err != nil {
		// документ мог измениться между list и resolve
		return s.sendError(msg.ID, -32602, err.Error())
	}
	chosen := res.Actions()[0]
	edits := make([]lspTextEdit, 0, len(chosen.Edits))
	for _, e := range chosen.Edits {
		edits = append(edits, lspTextEdit{
			Range:   rangeForSpan(file, e.Span),
			NewText: e.NewText,
		})
	}
	action.Edit = &workspaceEdit{
		Changes: map[string][]lspTextEdit{action.Data.URI: edits},
	}
	return s.sendResponse(msg.ID, action)
}

// engineFor builds a fresh engine over the current text of one open
// document. Rebuilding per request is what makes every verdict reflect
// the text as it is now.
func (s *Server) engineFor(uri string) (*engine.Engine, *source.File, bool) {
	s.mu.Lock()
	text, ok := s.openDocs[uri]
	s.mu.Unlock()
	if !ok {
		return nil, nil, false
	}
	fs := source.NewFileSet()
	id := fs.AddVirtual(uriToPath(uri), []byte(text))
	db := engine.NewDatabase(fs)
	eng := engine.New(db, assists.All(s.index), engine.Options{Disabled: s.disabled})
	return eng, fs.Get(id), true
}

func (s *Server) publishParseDiagnostics(uri string) error {
	s.mu.Lock()
	text, ok := s.openDocs[uri]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	fs := source.NewFileSet()
	id := fs.AddVirtual(uriToPath(uri), []byte(text))
	file := fs.Get(id)
	_, errs := parser.ParseFile(file)

	list := make([]lspDiagnostic, 0, len(errs))
	for _, perr := range errs {
		list = append(list, lspDiagnostic{
			Range:    rangeForSpan(file, perr.Span),
			Severity: 1,
			Source:   "lumen",
			Message:  perr.Msg,
		})
	}
	return s.sendPublish(uri, list)
}

func (s *Server) ctx() context.Context {
	if s.baseCtx != nil {
		return s.baseCtx
	}
	return context.Background()
}

func (s *Server) sendResponse(id json.RawMessage, result any) error {
	return s.send(map[string]any{
		"jsonrpc": "2.0",
		"id":      json.RawMessage(id),
		"result":  result,
	})
}

func (s *Server) sendError(id json.RawMessage, code int, message string) error {
	return s.send(map[string]any{
		"jsonrpc": "2.0",
		"id":      json.RawMessage(id),
		"error": rpcError{
			Code:    code,
			Message: message,
		},
	})
}

func (s *Server) sendPublish(uri string, list []lspDiagnostic) error {
	if list == nil {
		list = []lspDiagnostic{}
	}
	return s.send(map[string]any{
		"jsonrpc": "2.0",
		"method":  "textDocument/publishDiagnostics",
		"params": publishDiagnosticsParams{
			URI:         uri,
			Diagnostics: list,
		},
	})
}

func (s *Server) send(msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := writeMessage(s.out, payload); err != nil {
		return err
	}
	return s.out.Flush()
}

func (s *Server) logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "lsp: "+format+"\n", args...)
}
