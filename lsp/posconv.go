package lsp

import (
	"bytes"
	"unicode/utf8"
)

// utf16CharToByteOffset converts a UTF-16 character offset on a line to a
// byte offset, starting from lineStart within content.
//
// Mid-surrogate positions: if charOffset points to the second code unit of
// a surrogate pair, this floors to the start of that rune.
func utf16CharToByteOffset(content []byte, lineStart, charOffset int) int {
	if charOffset <= 0 {
		return lineStart
	}

	pos := lineStart
	utf16Units := 0

	for pos < len(content) && utf16Units < charOffset {
		r, size := utf8.DecodeRune(content[pos:])
		if r == utf8.RuneError && size <= 1 {
			utf16Units++
			pos++
			continue
		}

		if r == '\n' {
			break
		}

		if r > 0xFFFF {
			if utf16Units+2 > charOffset && utf16Units+1 == charOffset {
				return pos
			}
			utf16Units += 2
		} else {
			utf16Units++
		}
		pos += size
	}

	return pos
}

// clampToLineEnd ensures offset doesn't exceed the end of the current line.
// Returns the lesser of offset, the position of the next newline, or the
// content length.
func clampToLineEnd(content []byte, lineStart, offset int) int {
	if offset < lineStart {
		return lineStart
	}
	lineContent := content[lineStart:]
	if idx := bytes.IndexByte(lineContent, '\n'); idx >= 0 {
		lineEnd := lineStart + idx
		if offset > lineEnd {
			return lineEnd
		}
	} else if offset > len(content) {
		return len(content)
	}
	return offset
}
