package lsp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
)

func encodeRequest(t *testing.T, buf *bytes.Buffer, msg any) {
	t.Helper()
	payload, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	if err := writeMessage(buf, payload); err != nil {
		t.Fatalf("write request: %v", err)
	}
}

func decodeResponses(t *testing.T, out *bytes.Buffer) []rpcMessage {
	t.Helper()
	r := bufio.NewReader(out)
	var msgs []rpcMessage
	for {
		payload, err := readMessage(r)
		if err == io.EOF {
			return msgs
		}
		if err != nil {
			t.Fatalf("read response: %v", err)
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
		msgs = append(msgs, msg)
	}
}

func responseFor(t *testing.T, msgs []rpcMessage, id string) rpcMessage {
	t.Helper()
	for _, msg := range msgs {
		if string(msg.ID) == id {
			return msg
		}
	}
	t.Fatalf("no response with id %s in %d messages", id, len(msgs))
	return rpcMessage{}
}

func runSession(t *testing.T, requests ...any) []rpcMessage {
	t.Helper()
	var in, out bytes.Buffer
	for _, req := range requests {
		encodeRequest(t, &in, req)
	}
	srv := NewServer(&in, &out, ServerOptions{})
	if err := srv.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return decodeResponses(t, &out)
}

func TestInitializeAdvertisesCodeActions(t *testing.T) {
	msgs := runSession(t, map[string]any{
		"jsonrpc": "2.0", "id": 1, "method": "initialize",
	})

	resp := responseFor(t, msgs, "1")
	var result initializeResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if result.Capabilities.CodeActionProvider == nil {
		t.Fatalf("expected codeActionProvider capability")
	}
	if !result.Capabilities.CodeActionProvider.ResolveProvider {
		t.Fatalf("expected resolveProvider to be advertised")
	}
}

func TestCodeActionListAndResolve(t *testing.T) {
	text := "fn main() {\n    let x = 1 < 2;\n}\n"
	uri := "file:///tmp/test.lum"
	col := strings.Index("    let x = 1 < 2;", "<")
	pos := position{Line: 1, Character: col}

	msgs := runSession(t,
		map[string]any{"jsonrpc": "2.0", "id": 1, "method": "initialize"},
		map[string]any{"jsonrpc": "2.0", "method": "textDocument/didOpen", "params": didOpenTextDocumentParams{
			TextDocument: textDocumentItem{URI: uri, LanguageID: "lumen", Version: 1, Text: text},
		}},
		map[string]any{"jsonrpc": "2.0", "id": 2, "method": "textDocument/codeAction", "params": codeActionParams{
			TextDocument: textDocumentIdentifier{URI: uri},
			Range:        lspRange{Start: pos, End: pos},
		}},
		map[string]any{"jsonrpc": "2.0", "id": 3, "method": "codeAction/resolve", "params": codeAction{
			Title: "Flip binary expression",
			Data: &codeActionData{
				URI:   uri,
				Range: lspRange{Start: pos, End: pos},
				ID:    "flip-binexpr",
			},
		}},
	)

	var listed []codeAction
	if err := json.Unmarshal(responseFor(t, msgs, "2").Result, &listed); err != nil {
		t.Fatalf("unmarshal code actions: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 code action, got %d", len(listed))
	}
	if listed[0].Title != "Flip binary expression" {
		t.Fatalf("unexpected title %q", listed[0].Title)
	}
	if listed[0].Edit != nil {
		t.Fatalf("list phase must not compute edits")
	}

	var resolved codeAction
	if err := json.Unmarshal(responseFor(t, msgs, "3").Result, &resolved); err != nil {
		t.Fatalf("unmarshal resolved action: %v", err)
	}
	if resolved.Edit == nil {
		t.Fatalf("resolve phase must compute the edit")
	}
	edits := resolved.Edit.Changes[uri]
	if len(edits) == 0 {
		t.Fatalf("expected edits for the document")
	}
	found := false
	for _, e := range edits {
		if e.NewText == ">" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the mirrored operator among edits: %+v", edits)
	}
}

func TestDidChangeInvalidatesActions(t *testing.T) {
	text := "fn main() {\n    let x = 1 < 2;\n}\n"
	uri := "file:///tmp/test.lum"
	col := strings.Index("    let x = 1 < 2;", "<")
	pos := position{Line: 1, Character: col}

	msgs := runSession(t,
		map[string]any{"jsonrpc": "2.0", "method": "textDocument/didOpen", "params": didOpenTextDocumentParams{
			TextDocument: textDocumentItem{URI: uri, Version: 1, Text: text},
		}},
		// полная замена текста: оператора на позиции больше нет
		map[string]any{"jsonrpc": "2.0", "method": "textDocument/didChange", "params": didChangeTextDocumentParams{
			TextDocument:   versionedTextDocumentIdentifier{URI: uri, Version: 2},
			ContentChanges: []textDocumentContentChangeEvent{{Text: "fn main() {\n}\n"}},
		}},
		map[string]any{"jsonrpc": "2.0", "id": 5, "method": "codeAction/resolve", "params": codeAction{
			Data: &codeActionData{
				URI:   uri,
				Range: lspRange{Start: pos, End: pos},
				ID:    "flip-binexpr",
			},
		}},
	)

	resp := responseFor(t, msgs, "5")
	if resp.Error == nil {
		t.Fatalf("expected resolve to fail after the document changed")
	}
}

func TestParseDiagnosticsPublished(t *testing.T) {
	uri := "file:///tmp/broken.lum"
	msgs := runSession(t,
		map[string]any{"jsonrpc": "2.0", "method": "textDocument/didOpen", "params": didOpenTextDocumentParams{
			TextDocument: textDocumentItem{URI: uri, Version: 1, Text: "fn main() {\n    let = 1;\n}\n"},
		}},
	)

	for _, msg := range msgs {
		if msg.Method != "textDocument/publishDiagnostics" {
			continue
		}
		var params publishDiagnosticsParams
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			t.Fatalf("unmarshal diagnostics: %v", err)
		}
		if len(params.Diagnostics) == 0 {
			t.Fatalf("expected at least one parse diagnostic")
		}
		return
	}
	t.Fatalf("no publishDiagnostics notification seen")
}
