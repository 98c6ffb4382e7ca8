// Package semantic owns the Qdrant vendor-profile collection used by the
// semantic search agent.
package semantic

// ProfileRecord is one vendor profile embedding to store.
type ProfileRecord struct {
	ID        string
	Embedding []float32
	// Payload keys: vendor_id, name, category, description, city, state.
	Payload map[string]any
}

// ProfileHit is a single similarity search result.
type ProfileHit struct {
	ID       string            `json:"id"`
	Score    float32           `json:"score"`
	VendorID string            `json:"vendor_id"`
	Name     string            `json:"name"`
	Category string            `json:"category"`
	Meta     map[string]string `json:"meta,omitempty"`
}
