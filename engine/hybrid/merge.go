package hybrid

import (
	"sort"
	"strings"

	"github.com/ProcuraAI/procura-mvp/engine/domain"
)

// MergeRows unions two row sets keyed by vendor identity. Rows sharing a key
// have their field maps unioned (later non-empty values win ties); rows seen
// in only one source keep their fields as-is, absent fields stay absent.
// The operation is idempotent: merging a set with itself returns an equal set.
func MergeRows(a, b []domain.Row) []domain.Row {
	byKey := make(map[string]domain.Row)
	order := make([]string, 0, len(a)+len(b))

	absorb := func(r domain.Row) {
		key := mergeKey(r)
		existing, ok := byKey[key]
		if !ok {
			cp := r
			cp.Fields = copyFields(r.Fields)
			byKey[key] = cp
			order = append(order, key)
			return
		}
		for k, v := range r.Fields {
			if v == nil || v == "" {
				continue
			}
			existing.Fields[k] = v
		}
		if existing.Provenance != r.Provenance {
			existing.Provenance = domain.FromMerged
		}
		byKey[key] = existing
	}

	for _, r := range a {
		absorb(r)
	}
	for _, r := range b {
		absorb(r)
	}

	out := make([]domain.Row, 0, len(order))
	for _, key := range order {
		out = append(out, byKey[key])
	}
	return out
}

// mergeKey prefers the shared vendor id; rows without one (a store missing
// the id column) fall back to the normalized name.
func mergeKey(r domain.Row) string {
	if r.VendorID != "" {
		return r.VendorID
	}
	if name, ok := r.Fields["name"].(string); ok {
		return "name:" + strings.ToLower(strings.TrimSpace(name))
	}
	return ""
}

func copyFields(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// sortFieldKeys translates intent sort fields to the row field keys the
// stores actually emit.
var sortFieldKeys = map[string]string{
	"cost": "base_price",
	"year": "established_year",
}

// SortRows orders merged rows by the intent's sort keys so rows contributed
// by different sources still come back in one deterministic order.
func SortRows(rows []domain.Row, keys []domain.SortKey) {
	sort.SliceStable(rows, func(i, j int) bool {
		for _, k := range keys {
			field := k.Field
			if mapped, ok := sortFieldKeys[field]; ok {
				field = mapped
			}
			cmp := compareField(rows[i].Fields[field], rows[j].Fields[field])
			if cmp == 0 {
				continue
			}
			if k.Dir == domain.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return rows[i].VendorID < rows[j].VendorID
	})
}

func compareField(a, b any) int {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}
	as, _ := a.(string)
	bs, _ := b.(string)
	return strings.Compare(as, bs)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
