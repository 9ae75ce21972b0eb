// Package errinfo carries a human-readable message and source range
// alongside a failure, for callers that want more than Go's plain error
// string to report to a user.
package errinfo

import "github.com/danswartzendruber/basic-core/token"

// ErrorInfo is populated by vm.VM.Run on the way out of a failing run; for
// the tokenizer, parser and compiler, which return their error plainly,
// the caller fills it with Fill. The caller owns it: pass a non-nil
// pointer to Run to receive diagnostics, or nil to skip them.
type ErrorInfo struct {
	Msg      string
	Range    token.Range
	HasRange bool
}

// Ranger is implemented by the error types returned from this module's
// packages that carry a source Range.
type Ranger interface {
	Range() (token.Range, bool)
}

// Fill populates info from err, if info is non-nil. Safe to call with a
// nil info (a no-op) so callers that don't want diagnostics can pass nil
// throughout.
func Fill(info *ErrorInfo, err error) {
	if info == nil || err == nil {
		return
	}
	info.Msg = err.Error()
	if r, ok := err.(Ranger); ok {
		info.Range, info.HasRange = r.Range()
	}
}
