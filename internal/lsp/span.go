package lsp

import (
	"sort"
	"unicode/utf8"

	"fortio.org/safecast"

	"lumen/internal/source"
)

// LSP positions count UTF-16 code units per line; spans count bytes of
// the normalized content. Everything below converts between the two.

func clampUint32(n int) uint32 {
	if n < 0 {
		return 0
	}
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return ^uint32(0)
	}
	return v
}

// utf16Width returns how many UTF-16 code units the rune occupies.
func utf16Width(r rune) int {
	if r > 0xFFFF {
		return 2
	}
	return 1
}

// lineBounds returns the byte range [start, end) of a 0-based line,
// the line terminator excluded.
func lineBounds(file *source.File, line int) (uint32, uint32) {
	end := clampUint32(len(file.Content))
	var start uint32
	if line > 0 && line <= len(file.LineIdx) {
		start = file.LineIdx[line-1] + 1
	}
	if line < len(file.LineIdx) {
		end = file.LineIdx[line]
	}
	if start > end {
		start = end
	}
	return start, end
}

// offsetForPositionInFile maps an LSP position onto a byte offset.
// Columns past the line clamp to the line end, lines past the file
// clamp to the content end; a column inside a surrogate pair lands on
// the rune start.
func offsetForPositionInFile(file *source.File, pos position) uint32 {
	if file == nil || pos.Line < 0 || pos.Character < 0 {
		return 0
	}
	if pos.Line > len(file.LineIdx) {
		return clampUint32(len(file.Content))
	}
	start, end := lineBounds(file, pos.Line)
	units := 0
	off := start
	for off < end {
		r, size := utf8.DecodeRune(file.Content[off:end])
		if units+utf16Width(r) > pos.Character {
			break
		}
		units += utf16Width(r)
		off += clampUint32(size)
	}
	return off
}

// positionForOffsetInFile maps a byte offset back to an LSP position,
// clamping past-the-end offsets to the end of content.
func positionForOffsetInFile(file *source.File, offset uint32) position {
	if file == nil {
		return position{}
	}
	if max := clampUint32(len(file.Content)); offset > max {
		offset = max
	}
	lineIdx := file.LineIdx
	line := sort.Search(len(lineIdx), func(i int) bool { return lineIdx[i] >= offset })
	start, _ := lineBounds(file, line)
	if start > offset {
		start = offset
	}
	units := 0
	for off := start; off < offset; {
		r, size := utf8.DecodeRune(file.Content[off:offset])
		if off+clampUint32(size) > offset {
			break
		}
		units += utf16Width(r)
		off += clampUint32(size)
	}
	return position{Line: line, Character: units}
}

func rangeForSpan(file *source.File, span source.Span) lspRange {
	if file == nil {
		return lspRange{}
	}
	return lspRange{
		Start: positionForOffsetInFile(file, span.Start),
		End:   positionForOffsetInFile(file, span.End),
	}
}

func spanForRange(file *source.File, r lspRange) source.Span {
	if file == nil {
		return source.Span{}
	}
	return source.Span{
		File:  file.ID,
		Start: offsetForPositionInFile(file, r.Start),
		End:   offsetForPositionInFile(file, r.End),
	}
}
