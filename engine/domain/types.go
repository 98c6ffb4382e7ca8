// Package domain defines the shared data model for the vendor query engine:
// criteria extracted from natural language, compiled query fragments, execution
// results, and the chat turn envelope exchanged with the transport layer.
package domain

import "time"

// Field identifies which vendor attribute a criterion constrains.
type Field string

const (
	FieldCost     Field = "cost"
	FieldRating   Field = "rating"
	FieldLocation Field = "location"
	FieldCategory Field = "category"
	FieldService  Field = "service"
	FieldYear     Field = "year"
	FieldText     Field = "text"
)

// Op is a comparison operator recognised by the extractor.
type Op string

const (
	OpEq       Op = "eq"
	OpGt       Op = "gt"
	OpLt       Op = "lt"
	OpGte      Op = "gte"
	OpLte      Op = "lte"
	OpBetween  Op = "between"
	OpContains Op = "contains"
	OpIn       Op = "in"
)

// PricingType qualifies monetary criteria. Matches the pricing_type column
// of the service_pricing table.
type PricingType string

const (
	PricingHourly  PricingType = "hourly"
	PricingMonthly PricingType = "monthly"
	PricingFixed   PricingType = "fixed"
	PricingPerUnit PricingType = "per_unit"
)

// Range is the inclusive bound pair carried by a between criterion.
type Range struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Criterion is one structured constraint derived from text. The payload slot
// used depends on Op: Number for eq/gt/lt/gte/lte on numeric fields, Span for
// between, Text for contains, Set for in. PricingType is only meaningful on
// cost criteria.
type Criterion struct {
	Field       Field       `json:"field"`
	Op          Op          `json:"op"`
	Number      float64     `json:"number,omitempty"`
	Span        Range       `json:"span,omitempty"`
	Text        string      `json:"text,omitempty"`
	Set         []string    `json:"set,omitempty"`
	PricingType PricingType `json:"pricing_type,omitempty"`
}

// Target selects the column set the formatter surfaces.
type Target string

const (
	TargetVendors   Target = "vendors"
	TargetServices  Target = "services"
	TargetPricing   Target = "pricing"
	TargetLocations Target = "locations"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortKey is one element of a sort directive.
type SortKey struct {
	Field string    `json:"field"`
	Dir   Direction `json:"dir"`
}

// Page bounds the result set. Limit is always positive once an intent has
// been normalised.
type Page struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// DefaultLimit bounds relational and graph result size when the query does
// not say otherwise.
const DefaultLimit = 50

// DefaultSort orders results by rating (best first), then name for stable
// output.
func DefaultSort() []SortKey {
	return []SortKey{
		{Field: "rating", Dir: Desc},
		{Field: "name", Dir: Asc},
	}
}

// QueryIntent is the full parsed form of one request. Treated as immutable
// once compiled; the extractor returns a fresh value per call.
type QueryIntent struct {
	Criteria []Criterion `json:"criteria"`
	Target   Target      `json:"target"`
	Sort     []SortKey   `json:"sort"`
	Page     Page        `json:"page"`
	// Notes records non-fatal parse ambiguities (e.g. an unsupported "or")
	// so they can be logged and disclosed, never silently mis-parsed.
	Notes []string `json:"notes,omitempty"`
}

// SQLFragment is the relational portion of a compiled query: a parameterized
// statement with positional bindings.
type SQLFragment struct {
	Query string `json:"query"`
	Args  []any  `json:"args"`
}

// GraphFragment is the traversal portion of a compiled query with named
// parameter bindings.
type GraphFragment struct {
	Query  string         `json:"query"`
	Params map[string]any `json:"params"`
}

// CompiledQuery holds both store fragments. Graph is nil when no
// relationship or location criteria were present. Created fresh per request,
// never cached (bindings vary).
type CompiledQuery struct {
	Relational SQLFragment    `json:"relational"`
	Graph      *GraphFragment `json:"graph,omitempty"`
}

// Source names one of the two backing stores.
type Source string

const (
	SourceRelational Source = "relational"
	SourceGraph      Source = "graph"
)

// Provenance tags where a result row came from.
type Provenance string

const (
	FromRelational Provenance = "relational"
	FromGraph      Provenance = "graph"
	FromMerged     Provenance = "merged"
)

// Row is one result row keyed by the vendor identifier shared across stores.
// Fields absent from a source are simply missing from the map, never
// fabricated.
type Row struct {
	VendorID   string         `json:"vendor_id"`
	Fields     map[string]any `json:"fields"`
	Provenance Provenance     `json:"provenance"`
}

// ExecutionResult is the merged output of the hybrid executor. Partial is
// true when a fragment failed or timed out and the result was assembled from
// the surviving source.
type ExecutionResult struct {
	Rows     []Row    `json:"rows"`
	Partial  bool     `json:"partial"`
	Degraded []Source `json:"degraded_sources,omitempty"`
}

// Table is the rendered tabular response.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
	Summary string     `json:"summary"`
}

// MessageType classifies an outbound chat message.
type MessageType string

const (
	MessageUser      MessageType = "user"
	MessageAssistant MessageType = "assistant"
	MessageSystem    MessageType = "system"
	MessageError     MessageType = "error"
)

// Turn is one inbound request from the chat transport.
type Turn struct {
	Content        string `json:"content"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// Response is the outbound payload for one turn. ConversationID always
// echoes the inbound value.
type Response struct {
	Type           MessageType `json:"type"`
	Content        string      `json:"content"`
	ConversationID string      `json:"conversation_id,omitempty"`
	AgentID        string      `json:"agent_id,omitempty"`
	Table          *Table      `json:"table_data,omitempty"`
	Timestamp      time.Time   `json:"timestamp"`
}
