package diag

import (
	"fmt"
	"log/slog"
)

// Diagnostics accumulates findings across one checking session. The zero
// value and the nil pointer are both empty, usable bags.
type Diagnostics struct {
	all []Diagnostic
}

func (r *Diagnostics) With(ds ...Diagnostic) *Diagnostics {
	if r == nil {
		return &Diagnostics{all: ds}
	}
	r.all = append(r.all, ds...)
	return r
}

func (r *Diagnostics) Merge(other *Diagnostics) *Diagnostics {
	if r == nil {
		return other
	}
	if other == nil || len(other.all) == 0 {
		return r
	}
	return r.With(other.all...)
}

// All returns every finding in insertion order.
func (r *Diagnostics) All() []Diagnostic {
	if r == nil {
		return nil
	}
	return r.all
}

// Ordered returns errors first, then warnings, each group in insertion
// order.
func (r *Diagnostics) Ordered() []Diagnostic {
	if r == nil {
		return nil
	}
	ordered := make([]Diagnostic, 0, len(r.all))
	for _, d := range r.all {
		if d.Severity() == SeverityError {
			ordered = append(ordered, d)
		}
	}
	for _, d := range r.all {
		if d.Severity() == SeverityWarning {
			ordered = append(ordered, d)
		}
	}
	return ordered
}

func (r *Diagnostics) HasError() bool {
	if r == nil {
		return false
	}
	for _, d := range r.all {
		if d.Severity() == SeverityError {
			return true
		}
	}
	return false
}

func (r *Diagnostics) Len() int {
	if r == nil {
		return 0
	}
	return len(r.all)
}

func (r *Diagnostics) LogValue() slog.Value {
	if r == nil {
		return slog.GroupValue()
	}
	var vals []slog.Attr
	for i, d := range r.all {
		vals = append(vals, slog.Attr{
			Key: fmt.Sprint("d", i),
			Value: slog.GroupValue(
				slog.Attr{
					Key:   "msg",
					Value: slog.StringValue(FormatWithCode(d)),
				},
				slog.Attr{
					Key:   "severity",
					Value: slog.StringValue(d.Severity().String()),
				},
			),
		})
	}
	return slog.GroupValue(vals...)
}
