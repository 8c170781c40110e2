// Package errs defines the behavioral error categories the orchestrator
// switches on. Kind is a category, not a type name: leaf packages
// wrap a sentinel with fmt.Errorf("%w: ...", errs.ErrFetch) and the
// orchestrator classifies with errs.KindOf.
package errs

import "errors"

// Sentinel errors, one per behavioral category.
var (
	ErrAuth          = errors.New("auth error")
	ErrFetch         = errors.New("fetch error")
	ErrParse         = errors.New("parse error")
	ErrMatcher       = errors.New("matcher error")
	ErrStore         = errors.New("store error")
	ErrConfig        = errors.New("config error")
	ErrModelLoad     = errors.New("model load error")
	ErrEncode        = errors.New("encode error")
	ErrCancellation  = errors.New("cancellation")
)

// Kind is a behavioral error category.
type Kind string

const (
	KindAuth         Kind = "auth"
	KindFetch        Kind = "fetch"
	KindParse        Kind = "parse"
	KindMatcher      Kind = "matcher"
	KindStore        Kind = "store"
	KindConfig       Kind = "config"
	KindModelLoad    Kind = "model_load"
	KindEncode       Kind = "encode"
	KindCancellation Kind = "cancellation"
	KindUnknown      Kind = "unknown"
)

// Fatal reports whether the orchestrator must abort the run for this kind.
func (k Kind) Fatal() bool {
	switch k {
	case KindAuth, KindStore, KindConfig, KindModelLoad:
		return true
	default:
		return false
	}
}

// KindOf classifies err against the sentinel categories, innermost match
// wins via errors.Is so wrapped errors still classify correctly.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrAuth):
		return KindAuth
	case errors.Is(err, ErrFetch):
		return KindFetch
	case errors.Is(err, ErrParse):
		return KindParse
	case errors.Is(err, ErrMatcher):
		return KindMatcher
	case errors.Is(err, ErrStore):
		return KindStore
	case errors.Is(err, ErrConfig):
		return KindConfig
	case errors.Is(err, ErrModelLoad):
		return KindModelLoad
	case errors.Is(err, ErrEncode):
		return KindEncode
	case errors.Is(err, ErrCancellation):
		return KindCancellation
	default:
		return KindUnknown
	}
}
