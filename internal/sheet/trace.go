package sheet

import "fmt"

// Trace receives parser diagnostics. Parsers never log globally; callers
// that want visibility into skipped tables or fallback heuristics inject a
// sink, everyone else passes NopTrace.
type Trace interface {
	Notef(format string, args ...any)
}

type nopTrace struct{}

func (nopTrace) Notef(string, ...any) {}

// NopTrace discards all diagnostics.
func NopTrace() Trace { return nopTrace{} }

// Collector accumulates diagnostics in order. Useful in tests and when a
// caller wants to surface parse notes alongside the result.
type Collector struct {
	Notes []string
}

func (c *Collector) Notef(format string, args ...any) {
	c.Notes = append(c.Notes, fmt.Sprintf(format, args...))
}
