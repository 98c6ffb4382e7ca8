// Package route matches inbound text to the agent best equipped to handle it
// using embedding similarity over a capability index.
package route

import (
	"fmt"
	"math"
	"strings"
)

// Descriptor advertises one agent's capabilities.
type Descriptor struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
	Active   bool     `json:"active"`
}

// CapabilityText is the string embedded to represent the agent in the index.
func (d Descriptor) CapabilityText() string {
	return d.Name + ": " + strings.Join(d.Keywords, ", ")
}

// entry is one indexed agent with its precomputed embedding.
type entry struct {
	desc Descriptor
	vec  []float32
}

// Index is an immutable snapshot of agent descriptors and their capability
// embeddings. Lookups walk every active entry; agent counts are single-digit
// so nothing cleverer is warranted.
type Index struct {
	entries []entry
}

// BuildIndex embeds every descriptor's capability text. Order is preserved:
// similarity ties resolve to the earliest registered agent.
func BuildIndex(descs []Descriptor, embed func(string) ([]float32, error)) (*Index, error) {
	idx := &Index{entries: make([]entry, 0, len(descs))}
	for _, d := range descs {
		vec, err := embed(d.CapabilityText())
		if err != nil {
			return nil, fmt.Errorf("route: embed capabilities for %s: %w", d.ID, err)
		}
		idx.entries = append(idx.entries, entry{desc: d, vec: vec})
	}
	return idx, nil
}

// Nearest returns the active descriptor most similar to vec and its cosine
// score. ok is false when the index holds no active agents.
func (i *Index) Nearest(vec []float32) (Descriptor, float64, bool) {
	var (
		best      Descriptor
		bestScore = math.Inf(-1)
		found     bool
	)
	for _, e := range i.entries {
		if !e.desc.Active {
			continue
		}
		score := Cosine(vec, e.vec)
		// Strict greater-than keeps the first registered agent on ties.
		if score > bestScore {
			best, bestScore, found = e.desc, score, true
		}
	}
	return best, bestScore, found
}

// Descriptors returns a copy of all indexed descriptors in registration order.
func (i *Index) Descriptors() []Descriptor {
	out := make([]Descriptor, len(i.entries))
	for j, e := range i.entries {
		out[j] = e.desc
	}
	return out
}

// Cosine computes cosine similarity; zero vectors score 0.
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
