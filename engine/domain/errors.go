package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the engine's failure taxonomy. Nothing in this package
// is allowed to crash the owning process; every failure path returns one of
// these, usually wrapped with request context.
var (
	ErrParseAmbiguity       = errors.New("query phrase is ambiguous")
	ErrUnsupportedCriterion = errors.New("criterion has no column or relationship mapping")
	ErrFragmentTimeout      = errors.New("query fragment timed out")
	ErrFragmentFailure      = errors.New("query fragment failed")
	ErrBothFragmentsFailed  = errors.New("all query fragments failed")
	ErrRoutingThresholdMiss = errors.New("no agent above similarity threshold")
)

// QueryError wraps a sentinel with the criteria that were being evaluated,
// so the user-facing message can explain what to rephrase.
type QueryError struct {
	Criteria []Criterion
	Wrapped  error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query: %s (criteria: %s)", e.Wrapped, DescribeCriteria(e.Criteria))
}

func (e *QueryError) Unwrap() error { return e.Wrapped }

// NewQueryError creates a QueryError.
func NewQueryError(criteria []Criterion, wrapped error) *QueryError {
	return &QueryError{Criteria: criteria, Wrapped: wrapped}
}

// String renders a criterion in a compact human-readable form, used for
// logging and the "no matches" disclosure.
func (c Criterion) String() string {
	var b strings.Builder
	b.WriteString(string(c.Field))
	switch c.Op {
	case OpEq:
		b.WriteString(" = ")
	case OpGt:
		b.WriteString(" > ")
	case OpLt:
		b.WriteString(" < ")
	case OpGte:
		b.WriteString(" >= ")
	case OpLte:
		b.WriteString(" <= ")
	case OpBetween:
		fmt.Fprintf(&b, " between %g and %g", c.Span.Low, c.Span.High)
	case OpContains:
		fmt.Fprintf(&b, " contains %q", c.Text)
	case OpIn:
		fmt.Fprintf(&b, " in (%s)", strings.Join(c.Set, ", "))
	}
	switch c.Op {
	case OpEq, OpGt, OpLt, OpGte, OpLte:
		if c.Text != "" {
			fmt.Fprintf(&b, "%q", c.Text)
		} else {
			fmt.Fprintf(&b, "%g", c.Number)
		}
	}
	if c.PricingType != "" {
		fmt.Fprintf(&b, " (%s)", c.PricingType)
	}
	return b.String()
}

// DescribeCriteria joins criteria descriptions for disclosure to the user.
func DescribeCriteria(criteria []Criterion) string {
	if len(criteria) == 0 {
		return "none"
	}
	parts := make([]string, len(criteria))
	for i, c := range criteria {
		parts[i] = c.String()
	}
	return strings.Join(parts, "; ")
}
