package lsp

import (
	"bufio"
	"bytes"
	"testing"

	"lumen/internal/source"
)

func fileOf(text string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.lum", []byte(text))
	return fs.Get(id)
}

func TestPositionOffsetRoundTrip(t *testing.T) {
	file := fileOf("let a = 1;\nlet b = 2;\n")

	cases := []struct {
		pos    position
		offset uint32
	}{
		{position{Line: 0, Character: 0}, 0},
		{position{Line: 0, Character: 4}, 4},
		{position{Line: 1, Character: 0}, 11},
		{position{Line: 1, Character: 4}, 15},
	}
	for _, tc := range cases {
		if got := offsetForPositionInFile(file, tc.pos); got != tc.offset {
			t.Fatalf("offset for %+v: expected %d, got %d", tc.pos, tc.offset, got)
		}
		if got := positionForOffsetInFile(file, tc.offset); got != tc.pos {
			t.Fatalf("position for %d: expected %+v, got %+v", tc.offset, tc.pos, got)
		}
	}
}

func TestPositionUsesUTF16Units(t *testing.T) {
	// 𝛼 занимает 4 байта и 2 UTF-16 юнита
	file := fileOf("let \U0001D6FC = 1;\n")

	byteAfter := uint32(4 + 4)
	pos := positionForOffsetInFile(file, byteAfter)
	if pos.Character != 6 {
		t.Fatalf("expected UTF-16 column 6 after surrogate pair, got %d", pos.Character)
	}
	if got := offsetForPositionInFile(file, pos); got != byteAfter {
		t.Fatalf("round trip: expected byte %d, got %d", byteAfter, got)
	}
}

func TestOffsetClampsPastEnd(t *testing.T) {
	file := fileOf("let a = 1;\n")
	if got := offsetForPositionInFile(file, position{Line: 99, Character: 0}); got != uint32(len(file.Content)) {
		t.Fatalf("expected clamp to content end, got %d", got)
	}
}

func TestMessageFraming(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte(`{"jsonrpc":"2.0","id":1,"method":"initialize"}`)
	if err := writeMessage(&buf, payload); err != nil {
		t.Fatalf("writeMessage: %v", err)
	}

	got, err := readMessage(bufio.NewReader(&buf))
	if err != nil {
		t.Fatalf("readMessage: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("framing round trip changed payload: %q", got)
	}
}

func TestReadMessageRequiresContentLength(t *testing.T) {
	r := bufio.NewReader(bytes.NewBufferString("X-Other: 1\r\n\r\n{}"))
	if _, err := readMessage(r); err == nil {
		t.Fatalf("expected error for missing Content-Length")
	}
}
