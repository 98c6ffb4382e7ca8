package hybrid

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ProcuraAI/procura-mvp/engine/domain"
)

type fakeRel struct {
	rows  []domain.Row
	err   error
	calls atomic.Int32
	fn    func(ctx context.Context) ([]domain.Row, error)
}

func (f *fakeRel) QueryFragment(ctx context.Context, _ domain.SQLFragment) ([]domain.Row, error) {
	f.calls.Add(1)
	if f.fn != nil {
		return f.fn(ctx)
	}
	return f.rows, f.err
}

type fakeGraph struct {
	rows  []domain.Row
	err   error
	calls atomic.Int32
}

func (f *fakeGraph) QueryFragment(ctx context.Context, _ domain.GraphFragment) ([]domain.Row, error) {
	f.calls.Add(1)
	return f.rows, f.err
}

func row(id string, fields map[string]any, p domain.Provenance) domain.Row {
	return domain.Row{VendorID: id, Fields: fields, Provenance: p}
}

func compiledWithGraph() domain.CompiledQuery {
	return domain.CompiledQuery{
		Relational: domain.SQLFragment{Query: "SELECT 1"},
		Graph:      &domain.GraphFragment{Query: "MATCH (v:Vendor) RETURN v"},
	}
}

func TestExecuteMergesBothSources(t *testing.T) {
	rel := &fakeRel{rows: []domain.Row{
		row("a", map[string]any{"name": "Alpha", "rating": 4.5}, domain.FromRelational),
	}}
	gr := &fakeGraph{rows: []domain.Row{
		row("a", map[string]any{"city": "Austin"}, domain.FromGraph),
		row("b", map[string]any{"name": "Beta"}, domain.FromGraph),
	}}

	ex := New(rel, gr, DefaultOptions(), nil)
	res, err := ex.Execute(context.Background(), compiledWithGraph())
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if res.Partial {
		t.Error("partial with both sources healthy")
	}
	if len(res.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(res.Rows))
	}
	var a domain.Row
	for _, r := range res.Rows {
		if r.VendorID == "a" {
			a = r
		}
	}
	if a.Fields["name"] != "Alpha" || a.Fields["city"] != "Austin" {
		t.Errorf("fields not unioned: %v", a.Fields)
	}
	if a.Provenance != domain.FromMerged {
		t.Errorf("provenance = %s, want merged", a.Provenance)
	}
}

func TestExecutePartialOnGraphFailure(t *testing.T) {
	rel := &fakeRel{rows: []domain.Row{
		row("a", map[string]any{"name": "Alpha"}, domain.FromRelational),
	}}
	gr := &fakeGraph{err: errors.New("neo4j down")}

	ex := New(rel, gr, DefaultOptions(), nil)
	res, err := ex.Execute(context.Background(), compiledWithGraph())
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !res.Partial {
		t.Error("failed graph fragment did not mark result partial")
	}
	if len(res.Degraded) != 1 || res.Degraded[0] != domain.SourceGraph {
		t.Errorf("degraded = %v, want [graph]", res.Degraded)
	}
	if len(res.Rows) != 1 {
		t.Errorf("surviving rows = %d, want 1", len(res.Rows))
	}
}

func TestExecuteBothFragmentsFailed(t *testing.T) {
	rel := &fakeRel{err: errors.New("pg down")}
	gr := &fakeGraph{err: errors.New("neo4j down")}

	ex := New(rel, gr, DefaultOptions(), nil)
	_, err := ex.Execute(context.Background(), compiledWithGraph())
	if !errors.Is(err, domain.ErrBothFragmentsFailed) {
		t.Fatalf("err = %v, want ErrBothFragmentsFailed", err)
	}
}

func TestExecuteSoleRelationalFailureIsFatal(t *testing.T) {
	rel := &fakeRel{err: errors.New("pg down")}
	ex := New(rel, nil, DefaultOptions(), nil)

	q := domain.CompiledQuery{Relational: domain.SQLFragment{Query: "SELECT 1"}}
	_, err := ex.Execute(context.Background(), q)
	if !errors.Is(err, domain.ErrBothFragmentsFailed) {
		t.Fatalf("err = %v, want ErrBothFragmentsFailed", err)
	}
}

func TestExecuteRetriesTransientOnce(t *testing.T) {
	rel := &fakeRel{}
	transient := errors.New("connection reset")
	rel.fn = func(context.Context) ([]domain.Row, error) {
		if rel.calls.Load() == 1 {
			return nil, transient
		}
		return []domain.Row{row("a", map[string]any{"name": "Alpha"}, domain.FromRelational)}, nil
	}

	opts := DefaultOptions()
	opts.Transient = func(err error) bool { return errors.Is(err, transient) }
	ex := New(rel, nil, opts, nil)

	q := domain.CompiledQuery{Relational: domain.SQLFragment{Query: "SELECT 1"}}
	res, err := ex.Execute(context.Background(), q)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if rel.calls.Load() != 2 {
		t.Errorf("calls = %d, want 2 (one retry)", rel.calls.Load())
	}
	if len(res.Rows) != 1 || res.Partial {
		t.Errorf("result = %+v", res)
	}
}

func TestExecuteNoRetryOnPermanentError(t *testing.T) {
	rel := &fakeRel{err: errors.New("syntax error")}
	opts := DefaultOptions()
	opts.Transient = func(error) bool { return false }
	ex := New(rel, nil, opts, nil)

	q := domain.CompiledQuery{Relational: domain.SQLFragment{Query: "SELECT 1"}}
	if _, err := ex.Execute(context.Background(), q); err == nil {
		t.Fatal("expected error")
	}
	if rel.calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", rel.calls.Load())
	}
}

func TestExecuteFragmentTimeout(t *testing.T) {
	rel := &fakeRel{fn: func(ctx context.Context) ([]domain.Row, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	opts := Options{FragmentTimeout: 10 * time.Millisecond}
	ex := New(rel, nil, opts, nil)

	q := domain.CompiledQuery{Relational: domain.SQLFragment{Query: "SELECT pg_sleep(60)"}}
	_, err := ex.Execute(context.Background(), q)
	if !errors.Is(err, domain.ErrBothFragmentsFailed) {
		t.Fatalf("err = %v, want ErrBothFragmentsFailed", err)
	}
}

func TestExecuteCallerCancellationDiscardsRows(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rel := &fakeRel{fn: func(c context.Context) ([]domain.Row, error) {
		cancel()
		<-c.Done()
		return nil, c.Err()
	}}
	gr := &fakeGraph{rows: []domain.Row{row("a", map[string]any{"name": "Alpha"}, domain.FromGraph)}}

	ex := New(rel, gr, DefaultOptions(), nil)
	res, err := ex.Execute(ctx, compiledWithGraph())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(res.Rows) != 0 {
		t.Errorf("cancelled execution returned %d rows", len(res.Rows))
	}
}
