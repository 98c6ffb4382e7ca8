package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ProcuraAI/procura-mvp/engine/domain"
)

// fakeExecutor returns canned results and records the compiled query.
type fakeExecutor struct {
	result domain.ExecutionResult
	err    error
	got    domain.CompiledQuery
	calls  int
}

func (f *fakeExecutor) Execute(_ context.Context, q domain.CompiledQuery) (domain.ExecutionResult, error) {
	f.calls++
	f.got = q
	return f.result, f.err
}

func vendorRow(id, name, state, city string, rating float64) domain.Row {
	return domain.Row{
		VendorID: id,
		Fields: map[string]any{
			"name":         name,
			"category":     "Technology",
			"service_name": "Cloud Infrastructure",
			"pricing_type": "monthly",
			"base_price":   float64(500),
			"rating":       rating,
			"city":         city,
			"state":        state,
		},
		Provenance: domain.FromRelational,
	}
}

func TestVendorAgentCaliforniaRatings(t *testing.T) {
	exec := &fakeExecutor{result: domain.ExecutionResult{Rows: []domain.Row{
		vendorRow("v2", "CloudMaster Inc", "California", "Los Angeles", 4.5),
		vendorRow("v1", "TechCorp Solutions", "California", "San Francisco", 4.8),
	}}}
	a := NewVendorAgent(exec, nil)

	resp, err := a.Handle(context.Background(), domain.Turn{
		Content:        "show me vendors in California with ratings above 4.0",
		ConversationID: "c-1",
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if exec.calls != 1 {
		t.Fatalf("executor called %d times", exec.calls)
	}
	if !strings.Contains(exec.got.Relational.Query, "ILIKE") {
		t.Errorf("relational fragment missing location predicate:\n%s", exec.got.Relational.Query)
	}
	if exec.got.Graph == nil {
		t.Error("location query did not produce a graph fragment")
	}

	if resp.Type != domain.MessageAssistant || resp.AgentID != VendorAgentID {
		t.Fatalf("resp type/agent = %s/%s", resp.Type, resp.AgentID)
	}
	if resp.ConversationID != "c-1" {
		t.Errorf("conversation id = %q", resp.ConversationID)
	}
	if resp.Table == nil {
		t.Fatal("no table attached")
	}
	if len(resp.Table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(resp.Table.Rows))
	}
	// Default sort: rating desc, name asc.
	if resp.Table.Rows[0][0] != "TechCorp Solutions" {
		t.Errorf("first row = %v", resp.Table.Rows[0])
	}
	want := `Found 2 vendors matching: location contains "California"; rating > 4.`
	if resp.Table.Summary != want {
		t.Errorf("summary = %q, want %q", resp.Table.Summary, want)
	}
	if resp.Content != resp.Table.Summary {
		t.Errorf("content %q does not echo summary", resp.Content)
	}
}

func TestVendorAgentNoMatchesEchoesCriteria(t *testing.T) {
	exec := &fakeExecutor{result: domain.ExecutionResult{}}
	a := NewVendorAgent(exec, nil)

	resp, err := a.Handle(context.Background(), domain.Turn{
		Content: "show me vendors that cost more than $10,000 a month",
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	want := "No matches for criteria: cost > 10000 (monthly)."
	if resp.Table == nil || resp.Table.Summary != want {
		t.Fatalf("summary = %q, want %q", resp.Content, want)
	}
	if len(resp.Table.Rows) != 0 {
		t.Errorf("rows = %d, want 0", len(resp.Table.Rows))
	}
}

func TestVendorAgentPartialResultDisclosed(t *testing.T) {
	exec := &fakeExecutor{result: domain.ExecutionResult{
		Rows:     []domain.Row{vendorRow("v1", "TechCorp Solutions", "California", "San Francisco", 4.8)},
		Partial:  true,
		Degraded: []domain.Source{domain.SourceGraph},
	}}
	a := NewVendorAgent(exec, nil)

	resp, err := a.Handle(context.Background(), domain.Turn{Content: "list vendors with ratings above 4.0"})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(resp.Table.Summary, "may be incomplete") {
		t.Errorf("partial result not disclosed: %q", resp.Table.Summary)
	}
}

func TestVendorAgentExecutorFailure(t *testing.T) {
	exec := &fakeExecutor{err: domain.ErrBothFragmentsFailed}
	a := NewVendorAgent(exec, nil)

	_, err := a.Handle(context.Background(), domain.Turn{
		Content: "show me vendors in California with ratings above 4.0",
	})
	if !errors.Is(err, domain.ErrBothFragmentsFailed) {
		t.Fatalf("err = %v, want ErrBothFragmentsFailed", err)
	}
	var qe *domain.QueryError
	if !errors.As(err, &qe) {
		t.Fatal("executor failure not wrapped with criteria context")
	}
	if len(qe.Criteria) != 2 {
		t.Errorf("criteria = %v", qe.Criteria)
	}
}
