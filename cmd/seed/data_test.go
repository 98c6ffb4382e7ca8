package main

import (
	"strings"
	"testing"
)

func TestSeedDataConsistent(t *testing.T) {
	validPricing := map[string]bool{"hourly": true, "fixed": true, "per_unit": true, "monthly": true}

	ids := make(map[string]bool)
	uuids := make(map[string]bool)
	var maxMonthly float64

	for _, v := range vendors {
		if ids[v.ID] {
			t.Errorf("duplicate vendor id %s", v.ID)
		}
		ids[v.ID] = true
		if uuids[v.ProfileUUID] {
			t.Errorf("duplicate profile uuid %s", v.ProfileUUID)
		}
		uuids[v.ProfileUUID] = true

		if v.Rating < 1 || v.Rating > 5 {
			t.Errorf("%s: rating %v violates the schema check", v.Name, v.Rating)
		}
		if v.City == "" || v.State == "" {
			t.Errorf("%s: missing location", v.Name)
		}
		if len(v.Services) == 0 {
			t.Errorf("%s: no services", v.Name)
		}
		for _, svc := range v.Services {
			if !validPricing[svc.PricingType] {
				t.Errorf("%s/%s: pricing type %q violates the schema check", v.Name, svc.Name, svc.PricingType)
			}
			if svc.Price <= 0 {
				t.Errorf("%s/%s: non-positive price", v.Name, svc.Name)
			}
			if svc.PricingType == "monthly" && svc.Price > maxMonthly {
				maxMonthly = svc.Price
			}
		}
	}

	// The demo questions include "more than $10,000 a month"; that must come
	// back empty against the seeded data.
	if maxMonthly >= 10000 {
		t.Errorf("max monthly price %v would satisfy the canned no-match query", maxMonthly)
	}
}

func TestProfileTextMentionsServices(t *testing.T) {
	for _, v := range vendors {
		text := v.profileText()
		if !strings.Contains(text, v.Name) || !strings.Contains(text, v.City) {
			t.Errorf("%s: profile text missing identity: %q", v.Name, text)
		}
		for _, svc := range v.Services {
			if !strings.Contains(text, svc.Name) {
				t.Errorf("%s: profile text missing service %s", v.Name, svc.Name)
			}
		}
	}
}
