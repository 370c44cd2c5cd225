// Package lsp implements a Language Server Protocol (LSP) server for SVL
// chart specification files (.svl).
//
// The LSP server publishes diagnostics as the user edits:
//   - Syntax errors from C1/C2 parsing
//   - Missing-dataset and plot validation errors from C4 validation
//
// SVL source files are single-file with no import statements, so unlike a
// schema language with cross-file references, the server has no need for
// go-to-definition, hover, completion, document symbols, formatting, or
// import-graph tracking. Each document's diagnostics depend only on its own
// text.
//
// The server communicates via JSON-RPC 2.0 over stdio and implements LSP
// 3.16. It runs the same parse and validate passes (C1-C4) that the svl
// compiler runs against a file on disk, so diagnostics match what the CLI
// would report.
//
// # Architecture
//
// The server consists of:
//   - Server: the protocol lifecycle (initialize, didOpen/didChange/didClose)
//   - Workspace: tracks open documents and their latest diagnostic snapshot
//   - Analyzer: runs Parse, layout.Plan, and validate.Plot against document text
//
// # Usage
//
// The server is started via the svl-lsp command:
//
//	svl-lsp [options]
//
// The server communicates over stdio (implicit, no flag required).
//
// For debugging:
//
//	svl-lsp --log-level debug --log-file /tmp/svl-lsp.log
//
// # Limitations
//
// The server implements LSP 3.16, which does not support position encoding
// negotiation (added in LSP 3.17). UTF-16 encoding is assumed for all
// character positions.
//
// Only file:// URIs for .svl files are recognized; other URI schemes or
// extensions are silently ignored in textDocument/didOpen.
package lsp
