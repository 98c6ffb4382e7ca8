// Package plan compiles query intents into store-specific fragments: a
// parameterized SQL statement for the relational store and, when location
// criteria are present, a Cypher traversal for the graph store. Compilation is
// deterministic: the same intent always yields byte-identical fragments with
// the same binding order.
package plan

import (
	"fmt"
	"strings"

	"github.com/ProcuraAI/procura-mvp/engine/domain"
)

// selectColumns is the fixed projection over the vendor join graph. DISTINCT
// keeps the LEFT JOIN on locations from multiplying rows per location.
const selectColumns = `SELECT DISTINCT v.dgraph_id, v.name, v.rating, v.established_year, ` +
	`vs.service_name, vs.category, sp.pricing_type, sp.base_price, sp.currency, ` +
	`vl.city, vl.state`

// fromClause is the fixed join graph; pricing and service rows are always
// filtered to active ones.
const fromClause = ` FROM vendors v` +
	` JOIN vendor_services vs ON vs.vendor_id = v.id` +
	` JOIN service_pricing sp ON sp.service_id = vs.id` +
	` LEFT JOIN vendor_locations vl ON vl.vendor_id = v.id` +
	` WHERE vs.is_active = true AND sp.is_active = true`

// numericColumns maps numeric criterion fields to their column expression.
var numericColumns = map[domain.Field]string{
	domain.FieldCost:   "sp.base_price",
	domain.FieldRating: "v.rating",
	domain.FieldYear:   "v.established_year",
}

// textColumns maps text criterion fields to the column matched with ILIKE.
var textColumns = map[domain.Field]string{
	domain.FieldCategory: "vs.category",
	domain.FieldService:  "vs.service_name",
	domain.FieldText:     "v.name",
}

// sortColumns maps intent sort fields to order-by expressions.
var sortColumns = map[string]string{
	"rating": "v.rating",
	"name":   "v.name",
	"cost":   "sp.base_price",
	"year":   "v.established_year",
}

var sqlOps = map[domain.Op]string{
	domain.OpEq:  "=",
	domain.OpGt:  ">",
	domain.OpLt:  "<",
	domain.OpGte: ">=",
	domain.OpLte: "<=",
}

// Compile translates an intent into both store fragments. The two stores hold
// replicated vendor data, so the fragments are independent queries joined only
// at merge time, never federated. The only failure mode is a criterion with no
// column mapping, which the extractor vocabulary cannot produce.
func Compile(intent domain.QueryIntent) (domain.CompiledQuery, error) {
	intent = intent.Normalize()

	var (
		b    strings.Builder
		args []any
	)
	b.WriteString(selectColumns)
	b.WriteString(fromClause)

	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	for _, c := range intent.Criteria {
		clause, err := compileClause(c, next)
		if err != nil {
			return domain.CompiledQuery{}, domain.NewQueryError(intent.Criteria, err)
		}
		b.WriteString(" AND ")
		b.WriteString(clause)
	}

	b.WriteString(" ORDER BY ")
	for i, k := range intent.Sort {
		col, ok := sortColumns[k.Field]
		if !ok {
			col = "v.name"
		}
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(col)
		if k.Dir == domain.Desc {
			b.WriteString(" DESC")
		} else {
			b.WriteString(" ASC")
		}
	}

	fmt.Fprintf(&b, " LIMIT %s OFFSET %s", next(intent.Page.Limit), next(intent.Page.Offset))

	q := domain.CompiledQuery{
		Relational: domain.SQLFragment{Query: b.String(), Args: args},
	}
	q.Graph = compileGraph(intent)
	return q, nil
}

// compileClause renders one criterion as a SQL predicate, allocating
// placeholders through next in criteria order.
func compileClause(c domain.Criterion, next func(any) string) (string, error) {
	if col, ok := numericColumns[c.Field]; ok {
		switch c.Op {
		case domain.OpEq, domain.OpGt, domain.OpLt, domain.OpGte, domain.OpLte:
			clause := fmt.Sprintf("%s %s %s", col, sqlOps[c.Op], next(c.Number))
			if c.Field == domain.FieldCost && c.PricingType != "" {
				clause += fmt.Sprintf(" AND sp.pricing_type = %s", next(string(c.PricingType)))
			}
			return clause, nil
		case domain.OpBetween:
			clause := fmt.Sprintf("%s BETWEEN %s AND %s", col, next(c.Span.Low), next(c.Span.High))
			if c.Field == domain.FieldCost && c.PricingType != "" {
				clause += fmt.Sprintf(" AND sp.pricing_type = %s", next(string(c.PricingType)))
			}
			return clause, nil
		}
		return "", fmt.Errorf("%s on %s: %w", c.Op, c.Field, domain.ErrUnsupportedCriterion)
	}

	if c.Field == domain.FieldLocation {
		if c.Op != domain.OpContains {
			return "", fmt.Errorf("%s on location: %w", c.Op, domain.ErrUnsupportedCriterion)
		}
		p := next("%" + c.Text + "%")
		return fmt.Sprintf("(vl.city ILIKE %s OR vl.state ILIKE %s)", p, p), nil
	}

	if col, ok := textColumns[c.Field]; ok {
		switch c.Op {
		case domain.OpContains:
			return fmt.Sprintf("%s ILIKE %s", col, next("%"+c.Text+"%")), nil
		case domain.OpEq:
			return fmt.Sprintf("%s = %s", col, next(c.Text)), nil
		case domain.OpIn:
			parts := make([]string, len(c.Set))
			for i, v := range c.Set {
				parts[i] = next(v)
			}
			return fmt.Sprintf("%s IN (%s)", col, strings.Join(parts, ", ")), nil
		}
		return "", fmt.Errorf("%s on %s: %w", c.Op, c.Field, domain.ErrUnsupportedCriterion)
	}

	return "", fmt.Errorf("field %s: %w", c.Field, domain.ErrUnsupportedCriterion)
}

// compileGraph emits the traversal fragment. Only location criteria have a
// graph-side representation today; intents without one run relational-only.
func compileGraph(intent domain.QueryIntent) *domain.GraphFragment {
	var place string
	for _, c := range intent.Criteria {
		if c.Field == domain.FieldLocation && c.Op == domain.OpContains {
			place = c.Text
		}
	}
	if place == "" {
		return nil
	}
	return &domain.GraphFragment{
		Query: `MATCH (v:Vendor)-[:HAS_LOCATION]->(l:Location) ` +
			`WHERE toLower(l.city) CONTAINS toLower($place) OR toLower(l.state) CONTAINS toLower($place) ` +
			`RETURN v.ext_id AS vendor_id, v.name AS name, v.rating AS rating, ` +
			`l.city AS city, l.state AS state ` +
			`ORDER BY v.rating DESC, v.name ASC LIMIT $limit`,
		Params: map[string]any{
			"place": place,
			"limit": intent.Page.Limit,
		},
	}
}
