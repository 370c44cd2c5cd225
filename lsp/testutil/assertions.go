package testutil

import (
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// AssertDiagnosticCount checks that a specific number of diagnostics were published.
func AssertDiagnosticCount(t *testing.T, diags []protocol.Diagnostic, expectedCount int) {
	t.Helper()

	if len(diags) != expectedCount {
		t.Errorf("diagnostic count = %d; want %d", len(diags), expectedCount)
	}
}

// AssertDiagnosticHasCode checks that a diagnostic with the given code exists.
func AssertDiagnosticHasCode(t *testing.T, diags []protocol.Diagnostic, expectedCode string) {
	t.Helper()

	for _, diag := range diags {
		if diag.Code != nil && diag.Code.Value == expectedCode {
			return
		}
	}
	t.Errorf("no diagnostic with code %q found", expectedCode)
}
