package relational

import "context"

// Schema is the vendor schema DDL. dgraph_id is the external id shared with
// the graph store; the two stores are kept as eventually-consistent replicas
// by the seeding pipeline, never joined at query time.
const Schema = `
CREATE TABLE IF NOT EXISTS vendors (
    id SERIAL PRIMARY KEY,
    dgraph_id VARCHAR(255) UNIQUE NOT NULL,
    name VARCHAR(255) NOT NULL,
    description TEXT,
    email VARCHAR(255),
    phone VARCHAR(50),
    website VARCHAR(255),
    established_year INTEGER,
    rating DECIMAL(2,1) CHECK (rating >= 1 AND rating <= 5),
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS vendor_locations (
    id SERIAL PRIMARY KEY,
    vendor_id INTEGER REFERENCES vendors(id) ON DELETE CASCADE,
    address TEXT,
    city VARCHAR(100),
    state VARCHAR(100),
    country VARCHAR(100) DEFAULT 'USA',
    postal_code VARCHAR(20),
    latitude DECIMAL(10,8),
    longitude DECIMAL(11,8),
    is_primary BOOLEAN DEFAULT false
);

CREATE TABLE IF NOT EXISTS vendor_services (
    id SERIAL PRIMARY KEY,
    vendor_id INTEGER REFERENCES vendors(id) ON DELETE CASCADE,
    service_name VARCHAR(255) NOT NULL,
    description TEXT,
    category VARCHAR(100),
    is_active BOOLEAN DEFAULT true
);

CREATE TABLE IF NOT EXISTS service_pricing (
    id SERIAL PRIMARY KEY,
    service_id INTEGER REFERENCES vendor_services(id) ON DELETE CASCADE,
    pricing_type VARCHAR(50) CHECK (pricing_type IN ('hourly', 'fixed', 'per_unit', 'monthly')),
    base_price DECIMAL(12,2) NOT NULL,
    currency VARCHAR(3) DEFAULT 'USD',
    unit VARCHAR(50),
    discount_percentage DECIMAL(5,2) DEFAULT 0,
    is_active BOOLEAN DEFAULT true
);

CREATE TABLE IF NOT EXISTS service_reviews (
    id SERIAL PRIMARY KEY,
    service_id INTEGER REFERENCES vendor_services(id) ON DELETE CASCADE,
    rating DECIMAL(2,1) CHECK (rating >= 1 AND rating <= 5),
    review_text TEXT,
    reviewer_name VARCHAR(255),
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_vendors_dgraph_id ON vendors(dgraph_id);
CREATE INDEX IF NOT EXISTS idx_vendor_locations_vendor ON vendor_locations(vendor_id);
CREATE INDEX IF NOT EXISTS idx_vendor_services_vendor ON vendor_services(vendor_id);
CREATE INDEX IF NOT EXISTS idx_service_pricing_service ON service_pricing(service_id);
`

// EnsureSchema creates the vendor tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, Schema)
	return err
}

// Exec runs an arbitrary statement; the seeding pipeline loads sample data
// through here.
func (s *Store) Exec(ctx context.Context, query string, args ...any) error {
	_, err := s.db.ExecContext(ctx, query, args...)
	return err
}

// QueryRowScan runs a single-row query, scanning into dest. Seeding uses it
// for RETURNING ids.
func (s *Store) QueryRowScan(ctx context.Context, query string, args []any, dest ...any) error {
	return s.db.QueryRowContext(ctx, query, args...).Scan(dest...)
}
