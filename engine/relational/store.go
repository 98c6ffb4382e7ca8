// Package relational adapts the Postgres vendor store. It executes the SQL
// fragment of a compiled query and scans results into generic rows keyed by
// the vendor id shared with the graph store.
package relational

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/time/rate"

	"github.com/ProcuraAI/procura-mvp/engine/domain"
)

// Config holds connection settings. Zero limits get pool defaults.
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// QueriesPerSecond throttles fragment execution; 0 disables the limiter.
	QueriesPerSecond float64
}

// Store wraps the connection pool with a rate limiter so one chatty
// conversation cannot starve the database.
type Store struct {
	db      *sql.DB
	limiter *rate.Limiter
	logger  *slog.Logger
}

// Open connects and verifies the database is reachable.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("relational: open: %w", err)
	}

	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = 25
	}
	if cfg.MaxIdleConns <= 0 {
		cfg.MaxIdleConns = 5
	}
	if cfg.ConnMaxLifetime <= 0 {
		cfg.ConnMaxLifetime = 5 * time.Minute
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("relational: ping: %w", err)
	}
	return NewStore(db, cfg.QueriesPerSecond, logger), nil
}

// NewStore wraps an existing pool; tests inject sqlmock through here.
func NewStore(db *sql.DB, qps float64, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	var limiter *rate.Limiter
	if qps > 0 {
		limiter = rate.NewLimiter(rate.Limit(qps), int(qps)+1)
	}
	return &Store{db: db, limiter: limiter, logger: logger}
}

// numericColumns are scanned into float64 fields; lib/pq hands NUMERIC values
// back as text.
var numericColumns = map[string]bool{
	"rating":              true,
	"base_price":          true,
	"discount_percentage": true,
	"established_year":    true,
}

// QueryFragment runs a compiled SQL fragment and scans every row into a
// generic field map. The dgraph_id column becomes the row key; missing
// columns stay absent from the map.
func (s *Store) QueryFragment(ctx context.Context, frag domain.SQLFragment) ([]domain.Row, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	rows, err := s.db.QueryContext(ctx, frag.Query, frag.Args...)
	if err != nil {
		return nil, fmt.Errorf("relational: query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("relational: columns: %w", err)
	}

	var out []domain.Row
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("relational: scan: %w", err)
		}

		r := domain.Row{Fields: make(map[string]any, len(cols)), Provenance: domain.FromRelational}
		for i, col := range cols {
			v := normalize(col, vals[i])
			if v == nil {
				continue
			}
			if col == "dgraph_id" {
				if id, ok := v.(string); ok {
					r.VendorID = id
				}
				continue
			}
			r.Fields[col] = v
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("relational: rows: %w", err)
	}

	s.logger.Debug("relational fragment done", "rows", len(out), "elapsed", time.Since(start))
	return out, nil
}

// Ping reports store health.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// normalize converts driver values to the field types the merge layer
// expects: strings for text, float64 for numerics.
func normalize(col string, v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case []byte:
		if numericColumns[col] {
			if f, err := strconv.ParseFloat(string(t), 64); err == nil {
				return f
			}
		}
		return string(t)
	case int64:
		if numericColumns[col] {
			return float64(t)
		}
		return t
	case float64, string, bool, time.Time:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}
