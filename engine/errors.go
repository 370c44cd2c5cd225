package engine

import (
	"fmt"

	"github.com/timothyrenner/svl/diag"
)

// Error is a pipeline failure tagged with the diagnostic code that
// identifies which stage raised it, mirroring the named exception classes
// original_source/svl/compiler/errors.py defines for compiler.py's svl() to
// catch by type. cmd/svl matches on Code to print the right prefix and exit
// with status 1, exactly as cli.py's except clauses do.
type Error struct {
	Code diag.Code
	msg  string
}

func (e *Error) Error() string { return e.msg }

func newError(code diag.Code, format string, args ...any) *Error {
	return &Error{Code: code, msg: fmt.Sprintf(format, args...)}
}

// DatasetSpecError reports a malformed "--dataset name=path" override. The
// original raises a bare ValueError for this, with no dedicated exception
// class or diagnostic code of its own; cmd/svl special-cases it ahead of
// the diag.Code table for the same reason.
type DatasetSpecError struct {
	Spec string
}

func (e *DatasetSpecError) Error() string {
	return fmt.Sprintf("dataset %q needs to be name=path", e.Spec)
}
