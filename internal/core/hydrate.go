package core

// Hydration repairs church references in match records loaded from persisted
// reports. A saved report stores only identifiers or fragments, and the live
// roster may have changed since (renames, deletions, merges), so every record
// is re-linked to the best currently-known church object.
//
// Hydrate is pure (inputs are never mutated) and total (any record shape
// degrades to the unresolved placeholder instead of failing the batch).

// churchIDSource extracts a candidate church identifier from one of the
// nesting paths that evolved persisted formats used over time. Sources are
// tried in order; the first non-empty identifier wins.
type churchIDSource struct {
	name string
	get  func(MatchResult) string
}

var churchIDSources = []churchIDSource{
	{"church.id", func(r MatchResult) string {
		if r.Church.Resolved {
			return r.Church.Church.ID
		}
		return ""
	}},
	{"_churchId", func(r MatchResult) string {
		return r.LegacyChurchID
	}},
	{"contributor._churchId", func(r MatchResult) string {
		if r.Contributor == nil {
			return ""
		}
		if r.Contributor.LegacyChurchID != "" {
			return r.Contributor.LegacyChurchID
		}
		return r.Contributor.ChurchID
	}},
}

func candidateChurchID(r MatchResult) string {
	for _, src := range churchIDSources {
		if id := src.get(r); id != "" {
			return id
		}
	}
	return ""
}

// candidateChurchName recovers a display name for a church whose canonical
// object is gone: the embedded name first, then the legacy sidecar.
func candidateChurchName(r MatchResult) string {
	if r.Church.Resolved && r.Church.Church.Name != "" {
		return r.Church.Church.Name
	}
	return r.LegacyChurchName
}

// Hydrate resolves every record's church reference against the roster and
// returns a new slice of derived records. Per record:
//
//  1. A candidate identifier is taken from church.id, then the legacy
//     _churchId sidecar, then contributor._churchId.
//  2. A roster hit replaces the reference with the current object, so
//     renamed or updated church data shows up even in old reports.
//  3. A miss with a recoverable name synthesizes a minimal stand-in
//     carrying just the identifier and name.
//  4. Otherwise the reference stays as stored, or becomes the unresolved
//     placeholder when absent.
//
// When a contributor is present and a church was resolved, the resolved
// church is propagated onto the contributor copy as well, so transaction and
// contributor always agree after hydration.
func Hydrate(results []MatchResult, roster []Church) []MatchResult {
	byID := make(map[string]Church, len(roster))
	for _, c := range roster {
		byID[c.ID] = c
	}

	out := make([]MatchResult, len(results))
	for i, r := range results {
		hydrated := r
		id := candidateChurchID(r)
		switch {
		case id == "":
			if !r.Church.Resolved {
				hydrated.Church = UnresolvedRef()
			}
		default:
			hydrated.InjectedID = id
			if current, ok := byID[id]; ok {
				hydrated.Church = ResolvedRef(current)
			} else if name := candidateChurchName(r); name != "" {
				hydrated.Church = ResolvedRef(Church{ID: id, Name: name})
			} else if !r.Church.Resolved {
				hydrated.Church = UnresolvedRef()
			}
		}

		if r.Contributor != nil {
			contributor := *r.Contributor
			if hydrated.Church.Resolved {
				church := hydrated.Church.Church
				contributor.Church = &church
				contributor.ChurchID = church.ID
			}
			hydrated.Contributor = &contributor
		}

		out[i] = hydrated
	}
	return out
}
