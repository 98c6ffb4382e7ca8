package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCounter(t *testing.T) {
	r := New()
	c := r.Counter("test_total", "A test counter")
	c.Inc()
	c.Inc()
	c.Add(5)
	if c.Value() != 7 {
		t.Fatalf("value = %d, want 7", c.Value())
	}
	if r.Counter("test_total", "") != c {
		t.Fatal("same name returned a different counter")
	}
}

func TestGauge(t *testing.T) {
	r := New()
	g := r.Gauge("test_gauge", "A test gauge")
	g.Set(42)
	g.Inc()
	g.Dec()
	if g.Value() != 42 {
		t.Fatalf("value = %d, want 42", g.Value())
	}
}

func TestHistogramRender(t *testing.T) {
	r := New()
	h := r.Histogram("test_seconds", "Latency", []float64{0.1, 1.0})
	h.Observe(0.05)
	h.Observe(0.5)
	h.Observe(5)

	out := r.Render()
	for _, want := range []string{
		"# TYPE test_seconds histogram",
		`test_seconds_bucket{le="0.1"} 1`,
		`test_seconds_bucket{le="1"} 2`,
		`test_seconds_bucket{le="+Inf"} 3`,
		"test_seconds_count 3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
}

func TestLabeledCounter(t *testing.T) {
	r := New()
	lc := NewLabeledCounter(r, "picks_total", "agent", "Picks per agent.")
	lc.Inc("vendor-query")
	lc.Inc("vendor-query")
	lc.Inc("conversation")
	if lc.Value("vendor-query") != 2 || lc.Value("conversation") != 1 {
		t.Fatalf("values = %d, %d", lc.Value("vendor-query"), lc.Value("conversation"))
	}

	out := r.Render()
	if !strings.Contains(out, `picks_total{agent="vendor-query"} 2`) {
		t.Errorf("render missing labeled series:\n%s", out)
	}
	if strings.Count(out, "# TYPE picks_total counter") != 1 {
		t.Errorf("label series duplicated TYPE line:\n%s", out)
	}
}

func TestHandler(t *testing.T) {
	r := New()
	r.Counter("hits_total", "Hits.").Inc()

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type = %q", ct)
	}
}
