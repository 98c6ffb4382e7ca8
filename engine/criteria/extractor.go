// Package criteria turns free-form vendor questions into structured query
// intents. Extraction is lexical: operator phrase tables, entity regexes and a
// closed gazetteer. It never fails; text with no recognizable criteria yields
// an empty intent that compiles to a list-all query.
package criteria

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ProcuraAI/procura-mvp/engine/domain"
	"github.com/ProcuraAI/procura-mvp/pkg/metrics"
)

// opPhrases maps comparison phrases to operators. opAlternation lists the
// multi-word phrases first so "greater than" is matched before "than" could
// split it.
var opPhrases = map[string]domain.Op{
	"more than":    domain.OpGt,
	"greater than": domain.OpGt,
	"higher than":  domain.OpGt,
	"above":        domain.OpGt,
	"over":         domain.OpGt,
	"exceeding":    domain.OpGt,
	"less than":    domain.OpLt,
	"lower than":   domain.OpLt,
	"below":        domain.OpLt,
	"under":        domain.OpLt,
	"at least":     domain.OpGte,
	"at most":      domain.OpLte,
	"up to":        domain.OpLte,
	"equal to":     domain.OpEq,
	"equals":       domain.OpEq,
	"exactly":      domain.OpEq,
	"between":      domain.OpBetween,
}

const opAlternation = `(more than|greater than|higher than|above|over|exceeding|less than|lower than|below|under|at least|at most|up to|equal to|equals|exactly|between)`

var (
	costRe = regexp.MustCompile(
		`(?:cost|costs|costing|price|priced|prices|pricing|rate|rates|charge|charges|charging|fee|fees|budget)s?\s+` +
			`(?:of\s+|is\s+|are\s+|that\s+(?:is|are)\s+)?` + opAlternation +
			`\s+\$?([\d,]+(?:\.\d+)?)(?:\s*(?:and|to)\s*\$?([\d,]+(?:\.\d+)?))?`)

	// bareCostRe catches "more than $10,000" with the dollar sign carrying the
	// cost sense when no cost noun precedes the operator.
	bareCostRe = regexp.MustCompile(opAlternation +
		`\s+\$([\d,]+(?:\.\d+)?)(?:\s*(?:and|to)\s*\$?([\d,]+(?:\.\d+)?))?`)

	ratingRe = regexp.MustCompile(
		`(?:rating|ratings|rated|score|scores|stars?)\s+(?:of\s+|is\s+|are\s+)?` + opAlternation +
			`\s+(\d(?:\.\d+)?)(?:\s*(?:and|to)\s*(\d(?:\.\d+)?))?`)

	ratingEqRe = regexp.MustCompile(`(\d(?:\.\d+)?)\s*(?:\+|-?star|or better|or higher)\s*(?:rating|rated)?`)

	yearRe = regexp.MustCompile(
		`(?:established|founded|operating|started|created)?\s*(since|after|before|in)\s+((?:19|20)\d{2})`)

	yearCtxRe = regexp.MustCompile(`(?:established|founded|operating|started|created)`)

	// The \b keeps trailing letters of words like "austin" or "within" from
	// acting as the "in" preposition.
	placeRe = regexp.MustCompile(`\b(?:located in|based in|operating in|in|from|near|around)\s+([a-z][a-z .]+)`)

	limitRe = regexp.MustCompile(`(?:top|first|best)\s+(\d+)`)

	orRe = regexp.MustCompile(`\bor\b`)
)

// pricingPhrases is scanned in order; first hit wins, longer phrases first.
var pricingPhrases = []struct {
	phrase string
	typ    domain.PricingType
}{
	{"per month", domain.PricingMonthly},
	{"a month", domain.PricingMonthly},
	{"monthly", domain.PricingMonthly},
	{"per hour", domain.PricingHourly},
	{"an hour", domain.PricingHourly},
	{"hourly", domain.PricingHourly},
	{"per unit", domain.PricingPerUnit},
	{"per item", domain.PricingPerUnit},
	{"per project", domain.PricingFixed},
	{"one-time", domain.PricingFixed},
	{"one time", domain.PricingFixed},
	{"flat fee", domain.PricingFixed},
	{"fixed", domain.PricingFixed},
}

// located pairs a criterion with its match offset so later mentions of the
// same field overwrite earlier ones.
type located struct {
	pos int
	c   domain.Criterion
}

// Extract parses text into a normalized query intent. It never returns an
// error: ambiguities become intent notes, unparseable text degrades to the
// list-all intent.
func Extract(text string) domain.QueryIntent {
	metrics.ExtractionsTotal.Inc()
	lower := strings.ToLower(text)

	var found []located
	found = append(found, scanCost(lower)...)
	found = append(found, scanRating(lower)...)
	found = append(found, scanYear(lower)...)
	found = append(found, scanPlace(lower)...)
	found = append(found, scanVocab(lower)...)
	found = append(found, scanVendorName(lower)...)

	sort.SliceStable(found, func(i, j int) bool { return found[i].pos < found[j].pos })

	var intent domain.QueryIntent

	// Last writer wins per field: a later mention of the same field replaces
	// the earlier one rather than stacking contradictory constraints.
	byField := make(map[domain.Field]int)
	for _, f := range found {
		if f.c.Validate() != nil {
			intent.Notes = append(intent.Notes, fmt.Sprintf("dropped ambiguous criterion %s", f.c))
			continue
		}
		if i, ok := byField[f.c.Field]; ok {
			intent.Criteria[i] = f.c
			continue
		}
		byField[f.c.Field] = len(intent.Criteria)
		intent.Criteria = append(intent.Criteria, f.c)
	}

	if orRe.MatchString(lower) {
		intent.Notes = append(intent.Notes,
			"disjunction ('or') is not supported; criteria were combined with AND")
	}

	intent.Target = classifyTarget(lower, intent.Criteria)
	intent.Sort = scanSort(lower)
	if m := limitRe.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			intent.Page.Limit = n
		}
	}
	return intent.Normalize()
}

func parseNumber(s string) float64 {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	n, _ := strconv.ParseFloat(s, 64)
	return n
}

func numericCriterion(field domain.Field, phrase, first, second string) domain.Criterion {
	op := opPhrases[phrase]
	c := domain.Criterion{Field: field, Op: op}
	if op == domain.OpBetween {
		c.Span = domain.Range{Low: parseNumber(first), High: parseNumber(second)}
	} else {
		c.Number = parseNumber(first)
	}
	return c
}

func scanCost(lower string) []located {
	var out []located
	seen := false
	for _, m := range costRe.FindAllStringSubmatchIndex(lower, -1) {
		c := numericCriterion(domain.FieldCost,
			group(lower, m, 1), group(lower, m, 2), group(lower, m, 3))
		c.PricingType = pricingTypeNear(lower, m[0], m[1])
		out = append(out, located{pos: m[0], c: c})
		seen = true
	}
	if seen {
		return out
	}
	for _, m := range bareCostRe.FindAllStringSubmatchIndex(lower, -1) {
		c := numericCriterion(domain.FieldCost,
			group(lower, m, 1), group(lower, m, 2), group(lower, m, 3))
		c.PricingType = pricingTypeNear(lower, m[0], m[1])
		out = append(out, located{pos: m[0], c: c})
	}
	return out
}

// pricingTypeNear looks for a pricing qualifier adjacent to one cost mention,
// so "monthly fees over $500 and hourly rates under $50" tags each constraint
// with its own qualifier. The window reaches far enough back for a leading
// "monthly" and forward for a trailing "per month".
func pricingTypeNear(lower string, start, end int) domain.PricingType {
	lo := start - 12
	if lo < 0 {
		lo = 0
	}
	hi := end + 24
	if hi > len(lower) {
		hi = len(lower)
	}
	window := lower[lo:hi]
	for _, p := range pricingPhrases {
		if strings.Contains(window, p.phrase) {
			return p.typ
		}
	}
	return ""
}

func scanRating(lower string) []located {
	var out []located
	for _, m := range ratingRe.FindAllStringSubmatchIndex(lower, -1) {
		c := numericCriterion(domain.FieldRating,
			group(lower, m, 1), group(lower, m, 2), group(lower, m, 3))
		out = append(out, located{pos: m[0], c: c})
	}
	if len(out) > 0 {
		return out
	}
	for _, m := range ratingEqRe.FindAllStringSubmatchIndex(lower, -1) {
		c := domain.Criterion{
			Field:  domain.FieldRating,
			Op:     domain.OpGte,
			Number: parseNumber(group(lower, m, 1)),
		}
		out = append(out, located{pos: m[0], c: c})
	}
	return out
}

func scanYear(lower string) []located {
	var out []located
	for _, m := range yearRe.FindAllStringSubmatchIndex(lower, -1) {
		prep := group(lower, m, 1)
		// A bare preposition + year ("in 2020") is only a year criterion when
		// an establishment word appears somewhere; otherwise "in" is a place
		// preposition and the year is noise.
		if (prep == "in") && !yearCtxRe.MatchString(lower) {
			continue
		}
		var op domain.Op
		switch prep {
		case "after", "since":
			op = domain.OpGt
			if prep == "since" {
				op = domain.OpGte
			}
		case "before":
			op = domain.OpLt
		default:
			op = domain.OpEq
		}
		c := domain.Criterion{Field: domain.FieldYear, Op: op, Number: parseNumber(group(lower, m, 2))}
		out = append(out, located{pos: m[0], c: c})
	}
	return out
}

func scanPlace(lower string) []located {
	var out []located
	for _, m := range placeRe.FindAllStringSubmatchIndex(lower, -1) {
		if canon := lookupPlace(group(lower, m, 1)); canon != "" {
			c := domain.Criterion{Field: domain.FieldLocation, Op: domain.OpContains, Text: canon}
			out = append(out, located{pos: m[0], c: c})
		}
	}
	if len(out) > 0 {
		return out
	}
	// Substring fallback: a gazetteer name mentioned without a preposition.
	// Earliest mention wins so repeated scans of the same text agree.
	best, canon := -1, ""
	for _, table := range []map[string]string{knownCities, knownStates} {
		if i, c := firstVocabHit(lower, table); i >= 0 && (best < 0 || i < best) {
			best, canon = i, c
		}
	}
	if best >= 0 {
		out = append(out, located{pos: best, c: domain.Criterion{
			Field: domain.FieldLocation, Op: domain.OpContains, Text: canon}})
	}
	return out
}

func scanVocab(lower string) []located {
	var out []located
	if i, canon := firstVocabHit(lower, serviceVocab); i >= 0 {
		out = append(out, located{pos: i, c: domain.Criterion{
			Field: domain.FieldService, Op: domain.OpContains, Text: canon}})
	}
	if i, canon := firstVocabHit(lower, categoryVocab); i >= 0 {
		out = append(out, located{pos: i, c: domain.Criterion{
			Field: domain.FieldCategory, Op: domain.OpContains, Text: canon}})
	}
	return out
}

func scanVendorName(lower string) []located {
	for _, name := range knownVendors {
		if i := strings.Index(lower, strings.ToLower(name)); i >= 0 {
			return []located{{pos: i, c: domain.Criterion{
				Field: domain.FieldText, Op: domain.OpContains, Text: name}}}
		}
	}
	return nil
}

// firstVocabHit returns the earliest whole-word occurrence of any vocab
// phrase, preferring longer phrases at the same position.
func firstVocabHit(lower string, vocab map[string]string) (int, string) {
	best, canon := -1, ""
	for _, key := range sortedVocabKeys(vocab) {
		if i := indexWord(lower, key); i >= 0 && (best < 0 || i < best) {
			best, canon = i, vocab[key]
		}
	}
	return best, canon
}

// indexWord finds phrase in s at word boundaries.
func indexWord(s, phrase string) int {
	from := 0
	for {
		i := strings.Index(s[from:], phrase)
		if i < 0 {
			return -1
		}
		i += from
		end := i + len(phrase)
		leftOK := i == 0 || !isWordByte(s[i-1])
		rightOK := end == len(s) || !isWordByte(s[end])
		if leftOK && rightOK {
			return i
		}
		from = i + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

// classifyTarget is a deterministic rule chain; first matching rule wins.
func classifyTarget(lower string, criteria []domain.Criterion) domain.Target {
	hasField := func(f domain.Field) bool {
		for _, c := range criteria {
			if c.Field == f {
				return true
			}
		}
		return false
	}
	switch {
	case strings.Contains(lower, "pricing details") ||
		strings.Contains(lower, "pricing information") ||
		strings.Contains(lower, "pricing table") ||
		(hasField(domain.FieldService) && strings.Contains(lower, "pricing")):
		return domain.TargetPricing
	case strings.Contains(lower, "what services") ||
		strings.Contains(lower, "which services") ||
		strings.Contains(lower, "list services") ||
		strings.Contains(lower, "services offered") ||
		strings.Contains(lower, "services available"):
		return domain.TargetServices
	case strings.Contains(lower, "where") ||
		strings.Contains(lower, "locations of") ||
		strings.Contains(lower, "office"):
		return domain.TargetLocations
	default:
		return domain.TargetVendors
	}
}

func scanSort(lower string) []domain.SortKey {
	switch {
	case strings.Contains(lower, "cheapest") || strings.Contains(lower, "lowest price") ||
		strings.Contains(lower, "least expensive"):
		return []domain.SortKey{{Field: "cost", Dir: domain.Asc}, {Field: "name", Dir: domain.Asc}}
	case strings.Contains(lower, "most expensive") || strings.Contains(lower, "highest price"):
		return []domain.SortKey{{Field: "cost", Dir: domain.Desc}, {Field: "name", Dir: domain.Asc}}
	case strings.Contains(lower, "newest") || strings.Contains(lower, "most recent"):
		return []domain.SortKey{{Field: "year", Dir: domain.Desc}, {Field: "name", Dir: domain.Asc}}
	case strings.Contains(lower, "oldest"):
		return []domain.SortKey{{Field: "year", Dir: domain.Asc}, {Field: "name", Dir: domain.Asc}}
	}
	return nil
}

// group extracts a submatch by index from FindAllStringSubmatchIndex output.
func group(s string, m []int, n int) string {
	if 2*n+1 >= len(m) || m[2*n] < 0 {
		return ""
	}
	return s[m[2*n]:m[2*n+1]]
}
