package main

import (
	"fmt"
	"strings"
)

// seedService is one offering with a single price entry.
type seedService struct {
	Name        string
	PricingType string
	Price       float64
}

// seedVendor is one vendor replicated across all three stores. ID is the
// shared external id (dgraph_id in Postgres, ext_id in Neo4j, vendor_id in
// Qdrant payloads); ProfileUUID keys the Qdrant point.
type seedVendor struct {
	ID          string
	ProfileUUID string
	Name        string
	Category    string
	Description string
	City        string
	State       string
	Established int
	Rating      float64
	Services    []seedService
}

func (v seedVendor) profileText() string {
	names := make([]string, len(v.Services))
	for i, s := range v.Services {
		names[i] = s.Name
	}
	return fmt.Sprintf("%s. %s vendor in %s, %s offering %s. %s",
		v.Name, v.Category, v.City, v.State, strings.Join(names, ", "), v.Description)
}

var vendors = []seedVendor{
	{
		ID:          "vendor-001",
		ProfileUUID: "7f1c2a4e-0001-4b6e-9c1d-a1b2c3d4e501",
		Name:        "TechCorp Solutions",
		Category:    "Technology",
		Description: "Enterprise cloud platforms and managed security for mid-market companies.",
		City:        "San Francisco",
		State:       "California",
		Established: 2015,
		Rating:      4.8,
		Services: []seedService{
			{Name: "Cloud Infrastructure", PricingType: "monthly", Price: 2000},
			{Name: "Security Services", PricingType: "hourly", Price: 150},
		},
	},
	{
		ID:          "vendor-002",
		ProfileUUID: "7f1c2a4e-0002-4b6e-9c1d-a1b2c3d4e502",
		Name:        "DataFlow Systems",
		Category:    "Analytics",
		Description: "Data pipelines, dashboards and predictive models for operations teams.",
		City:        "Austin",
		State:       "Texas",
		Established: 2018,
		Rating:      4.6,
		Services: []seedService{
			{Name: "Data Analytics", PricingType: "monthly", Price: 1500},
			{Name: "Machine Learning", PricingType: "hourly", Price: 200},
		},
	},
	{
		ID:          "vendor-003",
		ProfileUUID: "7f1c2a4e-0003-4b6e-9c1d-a1b2c3d4e503",
		Name:        "CloudMaster Inc",
		Category:    "Technology",
		Description: "Cloud hosting and custom web applications with 24/7 support.",
		City:        "Los Angeles",
		State:       "California",
		Established: 2012,
		Rating:      4.5,
		Services: []seedService{
			{Name: "Cloud Infrastructure", PricingType: "monthly", Price: 1200},
			{Name: "Web Development", PricingType: "fixed", Price: 5000},
		},
	},
	{
		ID:          "vendor-004",
		ProfileUUID: "7f1c2a4e-0004-4b6e-9c1d-a1b2c3d4e504",
		Name:        "GreenEnergy Corp",
		Category:    "Energy",
		Description: "Commercial solar installation and renewable energy consulting.",
		City:        "Denver",
		State:       "Colorado",
		Established: 2010,
		Rating:      4.2,
		Services: []seedService{
			{Name: "Energy Services", PricingType: "fixed", Price: 15000},
		},
	},
	{
		ID:          "vendor-005",
		ProfileUUID: "7f1c2a4e-0005-4b6e-9c1d-a1b2c3d4e505",
		Name:        "DesignWorks Studio",
		Category:    "Design",
		Description: "Brand identity, graphic design and marketing sites for startups.",
		City:        "New York City",
		State:       "New York",
		Established: 2019,
		Rating:      4.9,
		Services: []seedService{
			{Name: "Design Services", PricingType: "hourly", Price: 95},
			{Name: "Web Development", PricingType: "fixed", Price: 3500},
		},
	},
	{
		ID:          "vendor-006",
		ProfileUUID: "7f1c2a4e-0006-4b6e-9c1d-a1b2c3d4e506",
		Name:        "LogisticsPro",
		Category:    "Logistics",
		Description: "Supply chain management and fleet tracking for regional distributors.",
		City:        "Chicago",
		State:       "Illinois",
		Established: 2008,
		Rating:      3.9,
		Services: []seedService{
			{Name: "Supply Chain Management", PricingType: "monthly", Price: 1800},
			{Name: "Supply Chain Management", PricingType: "per_unit", Price: 4.5},
		},
	},
}
