package lsp

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// PositionEncoding represents the position encoding used for LSP communication.
// LSP 3.17 introduced position encoding negotiation; prior versions assumed UTF-16.
type PositionEncoding string

const (
	// PositionEncodingUTF16 counts positions in UTF-16 code units. This is
	// the default: VS Code and most editors use UTF-16 internally, and
	// LSP < 3.17 mandates it.
	PositionEncodingUTF16 PositionEncoding = "utf-16"

	// PositionEncodingUTF8 counts positions in UTF-8 bytes.
	PositionEncodingUTF8 PositionEncoding = "utf-8"
)

// debounceDelay is the delay before triggering analysis after a change.
const debounceDelay = 150 * time.Millisecond

// debounceEntry tracks a pending analysis for a single document. Using a
// struct with pointer identity allows callbacks to safely clean up only
// their own entries, avoiding the race where a stale callback deletes a
// newer entry that was scheduled while analysis was running.
type debounceEntry struct {
	timer  *time.Timer
	cancel context.CancelFunc
}

// Notifier sends an LSP notification. This narrows glsp.Context down to the
// one capability closures actually need, reducing coupling in debounce timers.
type Notifier func(method string, params any)

// Document represents an open .svl document.
type Document struct {
	URI     string
	Version int
	Text    string
}

// Workspace manages the set of open documents and their latest snapshots.
// SVL source files are single-file (no import graph), so there is no
// module-root resolution, symbol index, or cross-file dependency tracking
// to maintain: each document's snapshot depends only on its own text.
type Workspace struct {
	mu sync.RWMutex

	logger *slog.Logger

	open      map[string]*Document
	snapshots map[string]*Snapshot

	posEncoding PositionEncoding

	debounces  map[string]*debounceEntry
	debounceMu sync.Mutex

	analyzer *Analyzer
}

// NewWorkspace creates a new workspace. If logger is nil, slog.Default() is used.
func NewWorkspace(logger *slog.Logger) *Workspace {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workspace{
		logger:      logger.With(slog.String("component", "workspace")),
		open:        make(map[string]*Document),
		snapshots:   make(map[string]*Snapshot),
		posEncoding: PositionEncodingUTF16,
		debounces:   make(map[string]*debounceEntry),
		analyzer:    NewAnalyzer(logger),
	}
}

// SetPositionEncoding sets the position encoding to use.
func (w *Workspace) SetPositionEncoding(enc PositionEncoding) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.posEncoding = enc
}

// PositionEncoding returns the negotiated position encoding.
func (w *Workspace) PositionEncoding() PositionEncoding {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.posEncoding
}

// DocumentOpened handles a document being opened.
func (w *Workspace) DocumentOpened(uri string, version int, text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.open[uri] = &Document{URI: uri, Version: version, Text: normalizeLineEndings(text)}
}

// DocumentChanged handles a document content change. Stale updates (version
// <= current, unless version is 0/unknown) are ignored.
func (w *Workspace) DocumentChanged(uri string, version int, text string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	doc, ok := w.open[uri]
	if !ok {
		return
	}
	if version != 0 && doc.Version != 0 && version <= doc.Version {
		w.logger.Debug("ignoring stale document change",
			slog.String("uri", uri),
			slog.Int("incoming_version", version),
			slog.Int("current_version", doc.Version),
		)
		return
	}
	doc.Version = version
	doc.Text = normalizeLineEndings(text)
}

// DocumentClosed handles a document being closed, clearing its diagnostics.
// If notify is nil, diagnostics are not cleared (useful in tests).
func (w *Workspace) DocumentClosed(notify Notifier, uri string) {
	w.mu.Lock()
	delete(w.open, uri)
	delete(w.snapshots, uri)
	w.mu.Unlock()

	w.publishDiagnostics(notify, uri, nil)
	w.cancelPendingAnalysis(uri)
}

// GetDocumentText returns the current text of an open document.
func (w *Workspace) GetDocumentText(uri string) (string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	doc, ok := w.open[uri]
	if !ok {
		return "", false
	}
	return doc.Text, true
}

// ScheduleAnalysis schedules a debounced analysis for the given document.
func (w *Workspace) ScheduleAnalysis(glspCtx *glsp.Context, uri string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if existing, ok := w.debounces[uri]; ok {
		existing.timer.Stop()
		existing.cancel()
	}

	analyzeCtx, cancel := context.WithCancel(context.Background())
	entry := &debounceEntry{cancel: cancel}

	var notify Notifier
	if glspCtx != nil {
		notify = func(method string, params any) { glspCtx.Notify(method, params) }
	}

	entry.timer = time.AfterFunc(debounceDelay, func() {
		select {
		case <-analyzeCtx.Done():
			return
		default:
			w.AnalyzeAndPublish(notify, analyzeCtx, uri)
			w.debounceMu.Lock()
			if w.debounces[uri] == entry {
				delete(w.debounces, uri)
			}
			w.debounceMu.Unlock()
		}
	})

	w.debounces[uri] = entry
}

// AnalyzeAndPublish analyzes a document and publishes diagnostics. analyzeCtx
// is a cancellable context; if cancelled before analysis finishes, the
// result is dropped. If notify is nil, diagnostics are computed but not
// published (useful in tests).
func (w *Workspace) AnalyzeAndPublish(notify Notifier, analyzeCtx context.Context, uri string) {
	w.mu.RLock()
	doc, ok := w.open[uri]
	if !ok {
		w.mu.RUnlock()
		return
	}
	text := doc.Text
	entryVersion := doc.Version
	w.mu.RUnlock()

	snapshot := w.analyzer.Analyze(uri, entryVersion, text)

	if analyzeCtx.Err() != nil {
		w.logger.Debug("analysis cancelled", slog.String("uri", uri))
		return
	}

	w.mu.Lock()
	currentDoc := w.open[uri]
	isStale := currentDoc == nil || currentDoc.Version != entryVersion
	if !isStale {
		w.snapshots[uri] = snapshot
	}
	w.mu.Unlock()

	if isStale {
		w.logger.Debug("skipping stale analysis results",
			slog.String("uri", uri),
			slog.Int("entry_version", entryVersion),
		)
		return
	}

	w.publishDiagnostics(notify, uri, snapshot.Diagnostics)
}

// publishDiagnostics publishes diagnostics for a URI. If notify is nil
// (e.g., in tests without a transport), this is a no-op.
func (w *Workspace) publishDiagnostics(notify Notifier, uri string, diagnostics []protocol.Diagnostic) {
	if notify == nil {
		return
	}
	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}
	notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// cancelPendingAnalysis cancels any pending analysis for a URI.
func (w *Workspace) cancelPendingAnalysis(uri string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()
	if entry, ok := w.debounces[uri]; ok {
		entry.timer.Stop()
		entry.cancel()
		delete(w.debounces, uri)
	}
}

// Shutdown cancels all pending analysis operations.
func (w *Workspace) Shutdown() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()
	for uri, entry := range w.debounces {
		entry.timer.Stop()
		entry.cancel()
		delete(w.debounces, uri)
	}
}

// LatestSnapshot returns the latest analysis snapshot for a URI, or nil.
func (w *Workspace) LatestSnapshot(uri string) *Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.snapshots[uri]
}

// URIToPath converts a file:// URI to a filesystem path.
//
// On POSIX systems: file:///path/to/file -> /path/to/file
// On Windows: file:///C:/path/to/file -> C:\path\to\file
func URIToPath(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parse URI %q: %w", uri, err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("not a file URI: %s", uri)
	}

	path := u.Path
	if runtime.GOOS == "windows" {
		if len(path) >= 3 && path[0] == '/' && isWindowsDriveLetter(path[1]) && path[2] == ':' {
			path = path[1:]
		}
		path = filepath.FromSlash(path)
	}
	return path, nil
}

// PathToURI converts a filesystem path to a file:// URI.
func PathToURI(path string) string {
	if !filepath.IsAbs(path) {
		if absPath, err := filepath.Abs(path); err == nil {
			path = absPath
		}
	}

	path = filepath.ToSlash(path)
	if runtime.GOOS == "windows" && len(path) >= 2 && isWindowsDriveLetter(path[0]) && path[1] == ':' {
		path = "/" + path
	}

	u := url.URL{Scheme: "file", Path: path}
	return u.String()
}

func isWindowsDriveLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// normalizeLineEndings converts CRLF and CR line endings to LF, so byte and
// rune offsets stay consistent across client platforms.
func normalizeLineEndings(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return text
}
