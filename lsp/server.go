// Package lsp implements a Language Server Protocol server for SVL chart
// specification files.
package lsp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	// commonlog is a required dependency of github.com/tliron/glsp.
	// We silence it in NewServer() via commonlog.Configure(0, nil) because
	// this server uses slog for all logging. The blank import of the "simple"
	// backend is required by glsp at runtime.
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple" // required backend for glsp
)

// isSvlURI returns true if the URI refers to an SVL chart-spec file (.svl).
func isSvlURI(uri string) bool {
	path, err := URIToPath(uri)
	if err != nil {
		return false
	}
	return strings.ToLower(filepath.Ext(path)) == ".svl"
}

const serverName = "svl-lsp"

// Server is the SVL language server. It publishes diagnostics from the
// compiler's parse and validate passes (C1-C4) as the user edits; it does
// not implement hover, completion, go-to-definition, or formatting, since
// SVL files have no cross-file references or type system to navigate.
type Server struct {
	logger    *slog.Logger
	handler   protocol.Handler
	server    *server.Server
	workspace *Workspace

	// shutdownCalled tracks whether shutdown was called before exit (LSP lifecycle).
	shutdownCalled bool

	closeOnce sync.Once
	closeErr  error
}

// NewServer creates a new SVL language server. If logger is nil, slog.Default() is used.
func NewServer(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		logger:    logger.With(slog.String("component", "server")),
		workspace: NewWorkspace(logger),
	}

	// Silence commonlog - glsp uses it internally but we use slog for all logging.
	commonlog.Configure(0, nil)

	s.handler = protocol.Handler{
		Initialize:    s.initialize,
		Initialized:   s.initialized,
		Shutdown:      s.shutdown,
		Exit:          s.exit,
		SetTrace:      s.setTrace,
		CancelRequest: s.cancelRequest,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,
	}

	s.server = server.NewServer(&s.handler, serverName, false)

	return s
}

// Handler returns the protocol handler for testing purposes.
func (s *Server) Handler() *protocol.Handler {
	return &s.handler
}

// RunStdio runs the server using stdio transport.
func (s *Server) RunStdio() error {
	if err := s.server.RunStdio(); err != nil {
		return fmt.Errorf("run stdio: %w", err)
	}
	return nil
}

// Shutdown initiates graceful server shutdown, cancelling pending analyses.
func (s *Server) Shutdown() {
	s.logger.Info("initiating shutdown")
	s.workspace.Shutdown()
}

// Close closes the JSON-RPC connection, causing RunStdio to return.
//
// Close is idempotent and safe to call before RunStdio (returns nil if the
// connection isn't ready yet, so callers can retry).
func (s *Server) Close() error {
	conn := s.server.GetStdio()
	if conn == nil {
		return nil
	}
	s.closeOnce.Do(func() {
		if err := conn.Close(); err != nil {
			s.closeErr = fmt.Errorf("close connection: %w", err)
		}
	})
	return s.closeErr
}

// initialize handles the initialize request.
func (s *Server) initialize(_ *glsp.Context, params *protocol.InitializeParams) (any, error) {
	s.logger.Info("initialize request received",
		slog.String("client_name", s.clientName(params)),
		slog.String("root_uri", s.rootURI(params)),
	)

	posEncoding := PositionEncodingUTF16
	s.workspace.SetPositionEncoding(posEncoding)
	s.logger.Info("using position encoding", slog.String("encoding", string(posEncoding)))

	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindFull
	if syncOpts, ok := capabilities.TextDocumentSync.(*protocol.TextDocumentSyncOptions); ok {
		syncOpts.Change = &syncKind
	}

	version := "dev"
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &version,
		},
	}, nil
}

func (s *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error {
	s.logger.Info("server initialized")
	return nil
}

func (s *Server) shutdown(_ *glsp.Context) error {
	s.logger.Info("shutdown request received")
	s.shutdownCalled = true
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

// exit handles the exit notification per the LSP spec: exit code 0 if
// shutdown was called first, 1 otherwise.
func (s *Server) exit(_ *glsp.Context) error {
	exitCode := 0
	if !s.shutdownCalled {
		s.logger.Warn("exit called without shutdown")
		exitCode = 1
	}
	s.logger.Info("exit notification received", slog.Int("exit_code", exitCode))
	os.Exit(exitCode)
	return nil // unreachable
}

func (s *Server) setTrace(_ *glsp.Context, params *protocol.SetTraceParams) error {
	s.logger.Debug("setTrace", slog.String("value", string(params.Value)))
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) cancelRequest(_ *glsp.Context, params *protocol.CancelParams) error {
	s.logger.Debug("cancelRequest", slog.Any("id", params.ID))
	return nil
}

// textDocumentDidOpen handles textDocument/didOpen.
func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	s.logger.Debug("textDocument/didOpen",
		slog.String("uri", uri),
		slog.Int("version", int(params.TextDocument.Version)),
	)

	if !isSvlURI(uri) {
		s.logger.Debug("ignoring didOpen for unsupported file type", slog.String("uri", uri))
		return nil
	}

	var notify Notifier
	if ctx != nil {
		notify = func(method string, params any) { ctx.Notify(method, params) }
	}

	s.workspace.DocumentOpened(uri, int(params.TextDocument.Version), params.TextDocument.Text)
	s.workspace.AnalyzeAndPublish(notify, context.Background(), uri)
	return nil
}

// textDocumentDidChange handles textDocument/didChange.
func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	s.logger.Debug("textDocument/didChange",
		slog.String("uri", uri),
		slog.Int("version", int(params.TextDocument.Version)),
	)

	if !isSvlURI(uri) {
		s.logger.Debug("ignoring didChange for unsupported file type", slog.String("uri", uri))
		return nil
	}

	if len(params.ContentChanges) > 0 {
		var lastFullChange *protocol.TextDocumentContentChangeEventWhole
		for _, rawChange := range params.ContentChanges {
			if change, ok := rawChange.(protocol.TextDocumentContentChangeEventWhole); ok {
				lastFullChange = &change
			}
		}

		if lastFullChange != nil {
			s.workspace.DocumentChanged(uri, int(params.TextDocument.Version), lastFullChange.Text)
		} else if _, ok := params.ContentChanges[0].(protocol.TextDocumentContentChangeEvent); ok {
			s.logger.Warn("received incremental change but server advertises full sync",
				slog.String("uri", uri), slog.Int("version", int(params.TextDocument.Version)))
			s.applyIncrementalChanges(params)
		}
	}
	s.workspace.ScheduleAnalysis(ctx, uri)
	return nil
}

// applyIncrementalChanges merges incremental text changes for a misbehaving
// client that sends them despite the server advertising full sync mode.
func (s *Server) applyIncrementalChanges(params *protocol.DidChangeTextDocumentParams) {
	currentText, ok := s.workspace.GetDocumentText(params.TextDocument.URI)
	if !ok {
		s.logger.Warn("incremental change for unknown document",
			slog.String("uri", params.TextDocument.URI))
		return
	}

	text := mergeIncrementalChanges(currentText, s.workspace.PositionEncoding(), params.ContentChanges, s.logger)
	s.workspace.DocumentChanged(params.TextDocument.URI, int(params.TextDocument.Version), text)
}

// mergeIncrementalChanges applies incremental content changes to currentText
// and returns the merged result. It is a pure function with no side effects.
func mergeIncrementalChanges(currentText string, enc PositionEncoding, changes []any, logger *slog.Logger) string {
	text := normalizeLineEndings(currentText)

	for _, rawChange := range changes {
		change, ok := rawChange.(protocol.TextDocumentContentChangeEvent)
		if !ok {
			continue
		}
		if change.Range == nil {
			text = normalizeLineEndings(change.Text)
			continue
		}

		lines := strings.Split(text, "\n")
		startOffset := rangeToByteOffset(lines, int(change.Range.Start.Line), int(change.Range.Start.Character), enc)
		endOffset := rangeToByteOffset(lines, int(change.Range.End.Line), int(change.Range.End.Character), enc)

		if startOffset <= len(text) && endOffset <= len(text) && startOffset <= endOffset {
			text = text[:startOffset] + normalizeLineEndings(change.Text) + text[endOffset:]
		} else {
			if logger != nil {
				logger.Warn("incremental change has invalid range, using full-text fallback",
					slog.Int("start_offset", startOffset),
					slog.Int("end_offset", endOffset),
					slog.Int("text_len", len(text)),
				)
			}
			text = normalizeLineEndings(change.Text)
		}
	}
	return text
}

// rangeToByteOffset converts an LSP position to a byte offset in the document.
func rangeToByteOffset(lines []string, line, char int, enc PositionEncoding) int {
	offset := 0
	for i := 0; i < line && i < len(lines); i++ {
		offset += len(lines[i]) + 1
	}

	if line < len(lines) {
		lineContent := []byte(lines[line])
		var charOffset int
		switch enc {
		case PositionEncodingUTF8:
			charOffset = min(char, len(lineContent))
		default:
			charOffset = utf16CharToByteOffset(lineContent, 0, char)
		}
		offset += charOffset
	}
	return offset
}

// textDocumentDidClose handles textDocument/didClose.
func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	s.logger.Debug("textDocument/didClose", slog.String("uri", uri))

	if !isSvlURI(uri) {
		s.logger.Debug("ignoring didClose for unsupported file type", slog.String("uri", uri))
		return nil
	}

	var notify Notifier
	if ctx != nil {
		notify = func(method string, params any) { ctx.Notify(method, params) }
	}
	s.workspace.DocumentClosed(notify, uri)
	return nil
}

// Helper functions

func (s *Server) clientName(params *protocol.InitializeParams) string {
	if params.ClientInfo != nil {
		if params.ClientInfo.Version != nil {
			return params.ClientInfo.Name + " " + *params.ClientInfo.Version
		}
		return params.ClientInfo.Name
	}
	return "unknown"
}

func (s *Server) rootURI(params *protocol.InitializeParams) string {
	if params.RootURI != nil {
		return *params.RootURI
	}
	return ""
}
