package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/ProcuraAI/procura-mvp/engine/domain"
)

type fakeResult struct {
	records []*neo4j.Record
	pos     int
}

func (f *fakeResult) Next(context.Context) bool {
	if f.pos >= len(f.records) {
		return false
	}
	f.pos++
	return true
}

func (f *fakeResult) Record() *neo4j.Record {
	return f.records[f.pos-1]
}

type fakeRunner struct {
	result     *fakeResult
	err        error
	lastCypher string
	lastParams map[string]any
	closed     bool
}

func (f *fakeRunner) Run(_ context.Context, cypher string, params map[string]any) (cypherResult, error) {
	f.lastCypher = cypher
	f.lastParams = params
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeRunner) Close(context.Context) error {
	f.closed = true
	return nil
}

func fragmentRecord(vendorID, name string, rating float64, city string) *neo4j.Record {
	return &neo4j.Record{
		Keys:   []string{"vendor_id", "name", "rating", "city", "state"},
		Values: []any{vendorID, name, rating, city, nil},
	}
}

func storeWithRunner(r *fakeRunner) *Store {
	s := New(nil, nil)
	s.newSession = func(context.Context) cypherRunner { return r }
	return s
}

func TestQueryFragment(t *testing.T) {
	r := &fakeRunner{result: &fakeResult{records: []*neo4j.Record{
		fragmentRecord("0x1", "TechCorp Solutions", 4.5, "San Francisco"),
		fragmentRecord("0x2", "CloudMaster Inc", 4.2, "Los Angeles"),
	}}}
	s := storeWithRunner(r)

	frag := domain.GraphFragment{
		Query:  "MATCH (v:Vendor)-[:HAS_LOCATION]->(l:Location) RETURN v.ext_id AS vendor_id",
		Params: map[string]any{"place": "California"},
	}
	rows, err := s.QueryFragment(context.Background(), frag)
	if err != nil {
		t.Fatalf("query fragment: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	first := rows[0]
	if first.VendorID != "0x1" {
		t.Errorf("vendor id = %q", first.VendorID)
	}
	if _, ok := first.Fields["vendor_id"]; ok {
		t.Error("key column duplicated into fields")
	}
	if first.Fields["name"] != "TechCorp Solutions" || first.Fields["rating"] != 4.5 {
		t.Errorf("fields = %v", first.Fields)
	}
	if _, ok := first.Fields["state"]; ok {
		t.Error("null column materialized in field map")
	}
	if first.Provenance != domain.FromGraph {
		t.Errorf("provenance = %s", first.Provenance)
	}
	if r.lastParams["place"] != "California" {
		t.Errorf("params = %v", r.lastParams)
	}
	if !r.closed {
		t.Error("session not closed")
	}
}

func TestQueryFragmentIntegerRatingNormalized(t *testing.T) {
	r := &fakeRunner{result: &fakeResult{records: []*neo4j.Record{{
		Keys:   []string{"vendor_id", "established_year"},
		Values: []any{"0x1", int64(2015)},
	}}}}
	s := storeWithRunner(r)

	rows, err := s.QueryFragment(context.Background(), domain.GraphFragment{Query: "RETURN 1"})
	if err != nil {
		t.Fatalf("query fragment: %v", err)
	}
	if rows[0].Fields["established_year"] != float64(2015) {
		t.Errorf("year = %v (%T), want float64", rows[0].Fields["established_year"], rows[0].Fields["established_year"])
	}
}

func TestQueryFragmentError(t *testing.T) {
	boom := errors.New("connection refused")
	s := storeWithRunner(&fakeRunner{err: boom})
	if _, err := s.QueryFragment(context.Background(), domain.GraphFragment{Query: "RETURN 1"}); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped boom", err)
	}
}

func TestLinkLocation(t *testing.T) {
	r := &fakeRunner{result: &fakeResult{}}
	s := storeWithRunner(r)

	err := s.LinkLocation(context.Background(), "0x1", Location{
		City: "Austin", State: "Texas", Country: "USA",
	})
	if err != nil {
		t.Fatalf("link location: %v", err)
	}
	if r.lastParams["vendor_id"] != "0x1" || r.lastParams["city"] != "Austin" {
		t.Errorf("params = %v", r.lastParams)
	}
}

func TestLinkService(t *testing.T) {
	r := &fakeRunner{result: &fakeResult{}}
	s := storeWithRunner(r)

	err := s.LinkService(context.Background(), "0x1", Service{
		Name: "Cloud Infrastructure", Category: "Technology",
	})
	if err != nil {
		t.Fatalf("link service: %v", err)
	}
	if r.lastParams["name"] != "Cloud Infrastructure" {
		t.Errorf("params = %v", r.lastParams)
	}
}
