// Package testutil provides integration testing utilities for the SVL LSP.
package testutil

import (
	"net/url"
	"path/filepath"
	"runtime"
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// PathToURI converts a filesystem path to a file:// URI.
// This is a local copy to avoid import cycles with the lsp package.
// It matches the behavior of lsp.PathToURI including Windows support.
func PathToURI(path string) string {
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err == nil {
			path = absPath
		}
	}

	uriPath := filepath.ToSlash(path)

	if runtime.GOOS == "windows" && len(uriPath) >= 2 && uriPath[1] == ':' && isWindowsDriveLetter(uriPath[0]) {
		uriPath = "/" + uriPath
	}

	u := url.URL{
		Scheme: "file",
		Path:   uriPath,
	}
	return u.String()
}

func isWindowsDriveLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// Harness drives an LSP protocol.Handler in-process for integration testing.
// It calls the handler's methods directly with a nil glsp.Context; there is
// no transport, so notifications such as published diagnostics are not
// captured.
type Harness struct {
	t       *testing.T
	handler *protocol.Handler

	// Root path for the test workspace
	Root string
}

// NewHarness creates a new test harness with the given handler.
func NewHarness(t *testing.T, handler *protocol.Handler, root string) *Harness {
	t.Helper()

	return &Harness{
		t:       t,
		handler: handler,
		Root:    root,
	}
}

// Initialize performs LSP initialization handshake with a single root.
func (h *Harness) Initialize() error {
	return h.InitializeWithFolders(nil)
}

// InitializeWithFolders performs LSP initialization handshake with multiple workspace folders.
// If folders is nil or empty, uses h.Root as the single workspace folder.
func (h *Harness) InitializeWithFolders(folders []string) error {
	h.t.Helper()

	if len(folders) == 0 {
		folders = []string{h.Root}
	}

	rootURI := PathToURI(folders[0])

	workspaceFolders := make([]protocol.WorkspaceFolder, len(folders))
	for i, folder := range folders {
		uri := PathToURI(folder)
		workspaceFolders[i] = protocol.WorkspaceFolder{
			URI:  uri,
			Name: filepath.Base(folder),
		}
	}

	params := &protocol.InitializeParams{
		RootURI:          &rootURI,
		WorkspaceFolders: workspaceFolders,
		Capabilities: protocol.ClientCapabilities{
			TextDocument: &protocol.TextDocumentClientCapabilities{
				Synchronization: &protocol.TextDocumentSyncClientCapabilities{},
			},
		},
	}

	_, err := h.handler.Initialize(nil, params)
	if err != nil {
		return err //nolint:wrapcheck // test utility
	}

	return h.handler.Initialized(nil, &protocol.InitializedParams{}) //nolint:wrapcheck // test utility
}

// OpenDocument opens a document with the given content.
func (h *Harness) OpenDocument(path, content string) error {
	h.t.Helper()

	absPath := path
	if !filepath.IsAbs(path) {
		absPath = filepath.Join(h.Root, path)
	}

	uri := PathToURI(absPath)
	return h.handler.TextDocumentDidOpen(nil, &protocol.DidOpenTextDocumentParams{ //nolint:wrapcheck // test utility
		TextDocument: protocol.TextDocumentItem{
			URI:        uri,
			LanguageID: "svl",
			Version:    1,
			Text:       content,
		},
	})
}

// ChangeDocument sends a document change notification.
func (h *Harness) ChangeDocument(path, content string, version int) error {
	h.t.Helper()

	absPath := path
	if !filepath.IsAbs(path) {
		absPath = filepath.Join(h.Root, path)
	}

	uri := PathToURI(absPath)
	return h.handler.TextDocumentDidChange(nil, &protocol.DidChangeTextDocumentParams{ //nolint:wrapcheck // test utility
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{
				URI: uri,
			},
			Version: protocol.Integer(version), //nolint:gosec // test utility, version is always small
		},
		ContentChanges: []any{
			protocol.TextDocumentContentChangeEventWhole{
				Text: content,
			},
		},
	})
}

// CloseDocument closes a document.
func (h *Harness) CloseDocument(path string) error {
	h.t.Helper()

	absPath := path
	if !filepath.IsAbs(path) {
		absPath = filepath.Join(h.Root, path)
	}

	uri := PathToURI(absPath)
	return h.handler.TextDocumentDidClose(nil, &protocol.DidCloseTextDocumentParams{ //nolint:wrapcheck // test utility
		TextDocument: protocol.TextDocumentIdentifier{
			URI: uri,
		},
	})
}

// Handler returns the protocol handler for low-level test access.
func (h *Harness) Handler() *protocol.Handler {
	return h.handler
}

// Close shuts down the harness.
func (h *Harness) Close() {
	// No-op for now - the harness doesn't own any resources
}
