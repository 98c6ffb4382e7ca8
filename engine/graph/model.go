// Package graph adapts the Neo4j vendor graph: Vendor nodes keyed by the
// external id shared with the relational store, linked to Location and
// Service nodes.
package graph

// Vendor is a vendor node. ID matches the relational dgraph_id column so
// rows from both stores merge by key.
type Vendor struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	Rating          float64 `json:"rating"`
	EstablishedYear int     `json:"established_year"`
}

// Location is a place a vendor operates from.
type Location struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// Service is an offering provided by a vendor.
type Service struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}
