package domain

import "fmt"

// Validate checks the structural invariants of a criterion: between carries
// exactly two ordered bounds, in carries a non-empty set, ratings stay within
// the 0-5 scale the schema enforces.
func (c Criterion) Validate() error {
	switch c.Op {
	case OpBetween:
		if c.Span.Low > c.Span.High {
			return fmt.Errorf("between bounds out of order (%g > %g): %w", c.Span.Low, c.Span.High, ErrParseAmbiguity)
		}
	case OpIn:
		if len(c.Set) == 0 {
			return fmt.Errorf("empty value set: %w", ErrParseAmbiguity)
		}
	case OpContains:
		if c.Text == "" {
			return fmt.Errorf("empty match text: %w", ErrParseAmbiguity)
		}
	}
	if c.Field == FieldRating {
		switch c.Op {
		case OpBetween:
			if c.Span.Low < 0 || c.Span.High > 5 {
				return fmt.Errorf("rating range %g-%g outside 0-5: %w", c.Span.Low, c.Span.High, ErrParseAmbiguity)
			}
		case OpEq, OpGt, OpLt, OpGte, OpLte:
			if c.Number < 0 || c.Number > 5 {
				return fmt.Errorf("rating %g outside 0-5: %w", c.Number, ErrParseAmbiguity)
			}
		}
	}
	return nil
}

// Normalize fills in intent defaults: vendors target, rating-then-name sort,
// and the standard page limit. Returns a copy; intents are immutable.
func (q QueryIntent) Normalize() QueryIntent {
	out := q
	if out.Target == "" {
		out.Target = TargetVendors
	}
	if len(out.Sort) == 0 {
		out.Sort = DefaultSort()
	}
	if out.Page.Limit <= 0 {
		out.Page.Limit = DefaultLimit
	}
	if out.Page.Offset < 0 {
		out.Page.Offset = 0
	}
	return out
}
