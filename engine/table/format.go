// Package table renders execution results as tabular chat payloads. Column
// sets follow the query target; cell rendering is deterministic so identical
// results always produce identical tables.
package table

import (
	"fmt"
	"strings"

	"github.com/ProcuraAI/procura-mvp/engine/domain"
	"github.com/ProcuraAI/procura-mvp/engine/hybrid"
	"github.com/ProcuraAI/procura-mvp/pkg/fn"
)

// column pairs a header with the renderer for its cell.
type column struct {
	header string
	render func(domain.Row) string
}

var vendorColumns = []column{
	{"Vendor", text("name")},
	{"Category", text("category")},
	{"Service", text("service_name")},
	{"Pricing", pricing},
	{"Rating", rating},
	{"Location", location},
}

// pricingColumns lead with the pricing dimension.
var pricingColumns = []column{
	{"Service", text("service_name")},
	{"Pricing", pricing},
	{"Currency", text("currency")},
	{"Vendor", text("name")},
	{"Rating", rating},
}

var serviceColumns = []column{
	{"Service", text("service_name")},
	{"Category", text("category")},
	{"Vendor", text("name")},
	{"Pricing", pricing},
}

var locationColumns = []column{
	{"Vendor", text("name")},
	{"City", text("city")},
	{"State", text("state")},
	{"Rating", rating},
}

func columnsFor(target domain.Target) []column {
	switch target {
	case domain.TargetPricing:
		return pricingColumns
	case domain.TargetServices:
		return serviceColumns
	case domain.TargetLocations:
		return locationColumns
	default:
		return vendorColumns
	}
}

// Format renders a merged execution result for the given intent. Rows are
// sorted by the intent's sort keys first so rows contributed by different
// stores appear in one stable order.
func Format(result domain.ExecutionResult, intent domain.QueryIntent) domain.Table {
	intent = intent.Normalize()
	cols := columnsFor(intent.Target)

	rows := make([]domain.Row, len(result.Rows))
	copy(rows, result.Rows)
	hybrid.SortRows(rows, intent.Sort)

	t := domain.Table{
		Headers: fn.Map(cols, func(c column) string { return c.header }),
		Rows: fn.Map(rows, func(r domain.Row) []string {
			return fn.Map(cols, func(c column) string { return c.render(r) })
		}),
		Summary: summarize(result, intent),
	}
	return t
}

func summarize(result domain.ExecutionResult, intent domain.QueryIntent) string {
	var b strings.Builder
	if len(result.Rows) == 0 {
		fmt.Fprintf(&b, "No matches for criteria: %s.", domain.DescribeCriteria(intent.Criteria))
	} else {
		noun := "results"
		if intent.Target == domain.TargetVendors {
			noun = "vendors"
		}
		fmt.Fprintf(&b, "Found %d %s", len(result.Rows), noun)
		if len(intent.Criteria) > 0 {
			fmt.Fprintf(&b, " matching: %s", domain.DescribeCriteria(intent.Criteria))
		}
		b.WriteString(".")
	}
	if result.Partial {
		names := fn.Map(result.Degraded, func(s domain.Source) string { return string(s) })
		fmt.Fprintf(&b, " Results may be incomplete: the %s store was unavailable.",
			strings.Join(names, " and "))
	}
	return b.String()
}

func text(key string) func(domain.Row) string {
	return func(r domain.Row) string {
		if v, ok := r.Fields[key]; ok && v != nil {
			if s, ok := v.(string); ok {
				return s
			}
			return fmt.Sprintf("%v", v)
		}
		return ""
	}
}

// pricing renders base price and pricing type as one cell, currency at two
// decimals.
func pricing(r domain.Row) string {
	price, ok := asFloat(r.Fields["base_price"])
	if !ok {
		return ""
	}
	if pt, ok := r.Fields["pricing_type"].(string); ok && pt != "" {
		return fmt.Sprintf("$%.2f/%s", price, pt)
	}
	return fmt.Sprintf("$%.2f", price)
}

// rating renders at one decimal.
func rating(r domain.Row) string {
	v, ok := asFloat(r.Fields["rating"])
	if !ok {
		return ""
	}
	return fmt.Sprintf("%.1f", v)
}

// location joins city and state, tolerating either being absent.
func location(r domain.Row) string {
	city, _ := r.Fields["city"].(string)
	state, _ := r.Fields["state"].(string)
	switch {
	case city != "" && state != "":
		return city + ", " + state
	case city != "":
		return city
	default:
		return state
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
