package lsp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

const validSVL = `
	DATASETS
		bigfoot "data/bigfoot_sightings.csv"
	LINE bigfoot
		X date BY YEAR
		Y date COUNT
`

func TestWorkspace_DocumentOpenedThenClosedClearsSnapshot(t *testing.T) {
	w := NewWorkspace(nil)
	uri := "file:///doc.svl"

	w.DocumentOpened(uri, 1, validSVL)
	w.AnalyzeAndPublish(nil, context.Background(), uri)
	require.NotNil(t, w.LatestSnapshot(uri))

	w.DocumentClosed(nil, uri)
	assert.Nil(t, w.LatestSnapshot(uri))
}

func TestWorkspace_DocumentChangedIgnoresStaleVersion(t *testing.T) {
	w := NewWorkspace(nil)
	uri := "file:///doc.svl"

	w.DocumentOpened(uri, 2, validSVL)
	w.DocumentChanged(uri, 1, "garbage")

	text, ok := w.GetDocumentText(uri)
	require.True(t, ok)
	assert.Equal(t, validSVL, text)
}

func TestWorkspace_AnalyzeAndPublishPublishesDiagnostics(t *testing.T) {
	w := NewWorkspace(nil)
	uri := "file:///doc.svl"
	w.DocumentOpened(uri, 1, `DATASETS`)

	var published protocol.PublishDiagnosticsParams
	notify := func(method string, params any) {
		if method == protocol.ServerTextDocumentPublishDiagnostics {
			published = params.(protocol.PublishDiagnosticsParams)
		}
	}

	w.AnalyzeAndPublish(notify, context.Background(), uri)

	assert.Equal(t, uri, published.URI)
	assert.NotEmpty(t, published.Diagnostics)
}

func TestWorkspace_AnalyzeAndPublishUsesCurrentVersion(t *testing.T) {
	w := NewWorkspace(nil)
	uri := "file:///doc.svl"
	w.DocumentOpened(uri, 1, validSVL)

	// The document moves on to version 2 before analysis runs; the
	// snapshot is taken from the current text and version.
	w.DocumentChanged(uri, 2, validSVL)
	w.AnalyzeAndPublish(nil, context.Background(), uri)

	snap := w.LatestSnapshot(uri)
	require.NotNil(t, snap)
	assert.Equal(t, 2, snap.Version)
}

func TestWorkspace_AnalyzeAndPublishDropsResultOnCancelledContext(t *testing.T) {
	w := NewWorkspace(nil)
	uri := "file:///doc.svl"
	w.DocumentOpened(uri, 1, validSVL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w.AnalyzeAndPublish(nil, ctx, uri)
	assert.Nil(t, w.LatestSnapshot(uri))
}

func TestURIToPath_RoundTrip(t *testing.T) {
	path := "/tmp/chart.svl"
	uri := PathToURI(path)

	got, err := URIToPath(uri)
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestURIToPath_RejectsNonFileScheme(t *testing.T) {
	_, err := URIToPath("untitled:Untitled-1")
	assert.Error(t, err)
}

func TestNormalizeLineEndings(t *testing.T) {
	assert.Equal(t, "a\nb\nc", normalizeLineEndings("a\r\nb\rc"))
}
