package catalog

// Selection is one chosen service with its package type, as submitted by
// the client.
type Selection struct {
	Slug        string
	PackageType PackageType
}

// DurationPolicy carries the structural knobs of duration resolution.
// PrepOverheadMinutes is added once per booking, not per service.
type DurationPolicy struct {
	PrepOverheadMinutes int
	DefaultDurationMin  int
}

// ResolvedDuration is the outcome of resolving a selection set against the
// active catalog. Unknown slugs are reported, not fatal: the caller warns
// and continues with the partial total rather than blocking the calendar.
type ResolvedDuration struct {
	TotalMinutes int
	PriceCents   int64
	Unknown      []string
}

// ResolveDuration computes the total slot length for a selection set.
// An empty selection yields the default duration so the calendar can render
// before any service is picked.
func ResolveDuration(selections []Selection, items map[string]*ServiceItem, policy DurationPolicy) ResolvedDuration {
	if len(selections) == 0 {
		return ResolvedDuration{TotalMinutes: policy.DefaultDurationMin}
	}

	var resolved ResolvedDuration
	for _, sel := range selections {
		item, ok := items[sel.Slug]
		if !ok {
			resolved.Unknown = append(resolved.Unknown, sel.Slug)
			continue
		}
		resolved.TotalMinutes += item.DurationMinutes()
		resolved.PriceCents += item.UnitPrice(sel.PackageType)
	}

	if resolved.TotalMinutes == 0 {
		// Every slug was unknown; fall back as for an empty selection.
		resolved.TotalMinutes = policy.DefaultDurationMin
		return resolved
	}

	resolved.TotalMinutes += policy.PrepOverheadMinutes
	return resolved
}
