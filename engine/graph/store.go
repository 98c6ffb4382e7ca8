package graph

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/ProcuraAI/procura-mvp/engine/domain"
	"github.com/ProcuraAI/procura-mvp/pkg/repo"
)

// cypherResult is the minimal result surface used by the store.
type cypherResult interface {
	Next(ctx context.Context) bool
	Record() *neo4j.Record
}

// cypherRunner is the minimal session surface; the seam lets tests inject
// canned records.
type cypherRunner interface {
	Run(ctx context.Context, cypher string, params map[string]any) (cypherResult, error)
	Close(ctx context.Context) error
}

type sessionAdapter struct {
	sess neo4j.SessionWithContext
}

func (a *sessionAdapter) Run(ctx context.Context, cypher string, params map[string]any) (cypherResult, error) {
	return a.sess.Run(ctx, cypher, params)
}

func (a *sessionAdapter) Close(ctx context.Context) error {
	return a.sess.Close(ctx)
}

// Store executes graph fragments and maintains the vendor graph.
type Store struct {
	driver     neo4j.DriverWithContext
	vendors    *repo.Neo4jRepo[Vendor, string]
	logger     *slog.Logger
	newSession func(ctx context.Context) cypherRunner // test seam
}

// New creates a Store on an open driver.
func New(driver neo4j.DriverWithContext, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		driver:  driver,
		vendors: newVendorRepo(driver),
		logger:  logger,
	}
}

func (s *Store) session(ctx context.Context) cypherRunner {
	if s.newSession != nil {
		return s.newSession(ctx)
	}
	return &sessionAdapter{sess: s.driver.NewSession(ctx, neo4j.SessionConfig{})}
}

// QueryFragment runs a compiled traversal fragment. Each record becomes one
// row: the vendor_id column is the row key, every other returned column lands
// in the field map tagged with graph provenance.
func (s *Store) QueryFragment(ctx context.Context, frag domain.GraphFragment) ([]domain.Row, error) {
	sess := s.session(ctx)
	defer sess.Close(ctx)

	start := time.Now()
	res, err := sess.Run(ctx, frag.Query, frag.Params)
	if err != nil {
		return nil, fmt.Errorf("graph: run fragment: %w", err)
	}

	var out []domain.Row
	for res.Next(ctx) {
		rec := res.Record()
		r := domain.Row{Fields: make(map[string]any, len(rec.Keys)), Provenance: domain.FromGraph}
		for i, key := range rec.Keys {
			v := normalizeValue(rec.Values[i])
			if v == nil {
				continue
			}
			if key == "vendor_id" {
				if id, ok := v.(string); ok {
					r.VendorID = id
				}
				continue
			}
			r.Fields[key] = v
		}
		out = append(out, r)
	}

	s.logger.Debug("graph fragment done", "rows", len(out), "elapsed", time.Since(start))
	return out, nil
}

// GetVendor returns a vendor node by external id.
func (s *Store) GetVendor(ctx context.Context, id string) (Vendor, error) {
	return s.vendors.Get(ctx, id)
}

// SaveVendor upserts a vendor node.
func (s *Store) SaveVendor(ctx context.Context, v Vendor) error {
	_, err := s.vendors.Create(ctx, v)
	return err
}

// ListVendors pages through vendor nodes in id order.
func (s *Store) ListVendors(ctx context.Context, opts repo.ListOpts) ([]Vendor, error) {
	return s.vendors.List(ctx, opts)
}

// LinkLocation upserts a location node and its HAS_LOCATION edge.
func (s *Store) LinkLocation(ctx context.Context, vendorID string, loc Location) error {
	sess := s.session(ctx)
	defer sess.Close(ctx)

	cypher := `MATCH (v:Vendor {ext_id: $vendor_id})
		MERGE (l:Location {city: $city, state: $state, country: $country})
		MERGE (v)-[:HAS_LOCATION]->(l)`
	_, err := sess.Run(ctx, cypher, map[string]any{
		"vendor_id": vendorID,
		"city":      loc.City,
		"state":     loc.State,
		"country":   loc.Country,
	})
	if err != nil {
		return fmt.Errorf("graph: link location: %w", err)
	}
	return nil
}

// LinkService upserts a service node and its PROVIDES edge.
func (s *Store) LinkService(ctx context.Context, vendorID string, svc Service) error {
	sess := s.session(ctx)
	defer sess.Close(ctx)

	cypher := `MATCH (v:Vendor {ext_id: $vendor_id})
		MERGE (s:Service {name: $name})
		SET s.category = $category
		MERGE (v)-[:PROVIDES]->(s)`
	_, err := sess.Run(ctx, cypher, map[string]any{
		"vendor_id": vendorID,
		"name":      svc.Name,
		"category":  svc.Category,
	})
	if err != nil {
		return fmt.Errorf("graph: link service: %w", err)
	}
	return nil
}

// Ping verifies driver connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.driver.VerifyConnectivity(ctx)
}

// Close shuts the driver down.
func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

func newVendorRepo(driver neo4j.DriverWithContext) *repo.Neo4jRepo[Vendor, string] {
	return repo.NewNeo4jRepo[Vendor, string](
		driver,
		"Vendor",
		vendorToMap,
		vendorFromRecord,
		repo.WithIDKey[Vendor, string]("ext_id"),
	)
}

func vendorToMap(v Vendor) map[string]any {
	return map[string]any{
		"ext_id":           v.ID,
		"name":             v.Name,
		"category":         v.Category,
		"rating":           v.Rating,
		"established_year": v.EstablishedYear,
	}
}

func vendorFromRecord(rec *neo4j.Record) (Vendor, error) {
	node, _, err := neo4j.GetRecordValue[dbtype.Node](rec, "n")
	if err != nil {
		return Vendor{}, err
	}
	props := node.Props
	v := Vendor{
		ID:       strProp(props, "ext_id"),
		Name:     strProp(props, "name"),
		Category: strProp(props, "category"),
	}
	if f, ok := props["rating"].(float64); ok {
		v.Rating = f
	}
	if y, ok := props["established_year"].(int64); ok {
		v.EstablishedYear = int(y)
	}
	return v, nil
}

func strProp(props map[string]any, key string) string {
	if s, ok := props[key].(string); ok {
		return s
	}
	return ""
}

// normalizeValue converts neo4j driver values into the merge layer's field
// types: float64 for numerics, strings as-is.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case int64:
		return float64(t)
	case float64, string, bool:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}
