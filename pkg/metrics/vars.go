package metrics

// Default is the process-wide registry served at /metrics.
var Default = New()

// LabeledCounter is a counter family with one label dimension; each distinct
// label value gets its own series.
type LabeledCounter struct {
	reg   *Registry
	name  string
	label string
	help  string
}

// NewLabeledCounter creates a counter family on reg.
func NewLabeledCounter(reg *Registry, name, label, help string) *LabeledCounter {
	return &LabeledCounter{reg: reg, name: name, label: label, help: help}
}

// Inc increments the series for the given label value.
func (l *LabeledCounter) Inc(value string) {
	l.reg.Counter(WithLabels(l.name, l.label, value), l.help).Inc()
}

// Value returns the series count for the given label value.
func (l *LabeledCounter) Value(value string) int64 {
	return l.reg.Counter(WithLabels(l.name, l.label, value), l.help).Value()
}

// Engine instruments.
var (
	// RoutingPicks counts turns routed per agent.
	RoutingPicks = NewLabeledCounter(Default, "procura_routing_picks_total", "agent", "Turns routed per agent.")
	// TurnErrors counts failed turns per component.
	TurnErrors = NewLabeledCounter(Default, "procura_turn_errors_total", "component", "Failed turns per component.")
	// DegradedResults counts partial results per degraded source.
	DegradedResults = NewLabeledCounter(Default, "procura_degraded_results_total", "source", "Partial results per degraded store.")
	// ExtractionsTotal counts criteria extractions.
	ExtractionsTotal = Default.Counter("procura_extractions_total", "Criteria extraction runs.")
	// FragmentSeconds tracks store fragment latency.
	FragmentSeconds = Default.Histogram("procura_fragment_seconds", "Query fragment latency in seconds.", nil)
)
