package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestIsSvlURI(t *testing.T) {
	assert.True(t, isSvlURI("file:///tmp/chart.svl"))
	assert.False(t, isSvlURI("file:///tmp/chart.txt"))
	assert.False(t, isSvlURI("untitled:Untitled-1"))
}

func TestMergeIncrementalChanges_FullReplace(t *testing.T) {
	changes := []any{
		protocol.TextDocumentContentChangeEvent{Text: "new content"},
	}
	got := mergeIncrementalChanges("old content", PositionEncodingUTF16, changes, nil)
	assert.Equal(t, "new content", got)
}

func TestMergeIncrementalChanges_RangeEdit(t *testing.T) {
	line := protocol.UInteger(0)
	start := protocol.UInteger(0)
	end := protocol.UInteger(5)
	changes := []any{
		protocol.TextDocumentContentChangeEvent{
			Range: &protocol.Range{
				Start: protocol.Position{Line: line, Character: start},
				End:   protocol.Position{Line: line, Character: end},
			},
			Text: "howdy",
		},
	}
	got := mergeIncrementalChanges("hello world", PositionEncodingUTF16, changes, nil)
	assert.Equal(t, "howdy world", got)
}

func TestRangeToByteOffset(t *testing.T) {
	lines := []string{"hello", "world"}
	assert.Equal(t, 0, rangeToByteOffset(lines, 0, 0, PositionEncodingUTF16))
	assert.Equal(t, 6+2, rangeToByteOffset(lines, 1, 2, PositionEncodingUTF16))
}

func TestNewServer_BuildsHandlerWithDiagnosticsOnly(t *testing.T) {
	s := NewServer(nil)
	h := s.Handler()
	assert.NotNil(t, h.Initialize)
	assert.NotNil(t, h.TextDocumentDidOpen)
	assert.NotNil(t, h.TextDocumentDidChange)
	assert.NotNil(t, h.TextDocumentDidClose)
}
