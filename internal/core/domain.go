package core

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// MatchStatus classifies a reconciled record as produced by the upstream
// matching pipeline. Values are carried verbatim from persisted reports.
type MatchStatus string

const (
	// StatusIdentified means transaction, contributor and church are linked.
	StatusIdentified MatchStatus = "IDENTIFICADO"
	// StatusPending means the contributor link exists but the church
	// reference still needs resolution against the current roster.
	StatusPending MatchStatus = "PENDENTE"
	// StatusUnidentified means no attribution could be made upstream.
	StatusUnidentified MatchStatus = "unidentified"
)

// Attributable reports whether records with this status may contribute to
// per-church totals.
func (s MatchStatus) Attributable() bool {
	return s == StatusIdentified || s == StatusPending
}

// PlaceholderChurchID is the identifier the unresolved placeholder carries on
// the wire. Old reports also used "placeholder" and "unidentified" for the
// same purpose; all three decode to an unresolved ChurchRef.
const PlaceholderChurchID = "unk"

// PlaceholderChurchName is the display name of the unresolved placeholder.
const PlaceholderChurchName = "Desconhecida"

func sentinelChurchID(id string) bool {
	switch id {
	case PlaceholderChurchID, "placeholder", "unidentified":
		return true
	}
	return false
}

type (
	// Church is an organization that financial activity is attributed to.
	// Identity is the ID; names are not unique and change over time.
	Church struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Address string `json:"address"`
		Pastor  string `json:"pastor"`
		LogoURL string `json:"logoUrl"`
	}

	// Contributor is a person expected to contribute to a church. The
	// owning church may arrive as a bare identifier, an embedded object,
	// or a legacy sidecar field; all three are accepted.
	Contributor struct {
		ID             string           `json:"id"`
		Name           string           `json:"name"`
		Amount         *decimal.Decimal `json:"amount,omitempty"`
		Date           string           `json:"date,omitempty"`
		ChurchID       string           `json:"churchId,omitempty"`
		Church         *Church          `json:"church,omitempty"`
		LegacyChurchID string           `json:"_churchId,omitempty"`
	}

	// Transaction is a bank statement line. Negative amounts are expenses,
	// positive amounts income.
	Transaction struct {
		ID          string          `json:"id"`
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
		Date        string          `json:"date,omitempty"`
	}

	// MatchResult pairs a bank transaction with an optional contributor and
	// church, as decided upstream. Persisted reports may carry the church
	// in several shapes (object, bare id, legacy sidecar fields); Hydrate
	// normalizes all of them against the current roster.
	MatchResult struct {
		Transaction       Transaction      `json:"transaction"`
		Contributor       *Contributor     `json:"contributor,omitempty"`
		Church            ChurchRef        `json:"church"`
		Status            MatchStatus      `json:"status"`
		ContributorAmount *decimal.Decimal `json:"contributorAmount,omitempty"`
		LegacyChurchID    string           `json:"_churchId,omitempty"`
		LegacyChurchName  string           `json:"_churchName,omitempty"`
		// InjectedID records which identifier hydration used; diagnostic
		// only, never consulted by aggregation.
		InjectedID string `json:"_injectedId,omitempty"`
	}
)

// ChurchRef is a church reference that is either resolved to a concrete
// Church or explicitly unresolved. It replaces the sentinel identifiers
// ("unk", "placeholder", "unidentified") scattered through old reports with
// a single tagged state, so consumers never compare magic strings.
type ChurchRef struct {
	Church   Church
	Resolved bool
}

// ResolvedRef wraps a concrete church.
func ResolvedRef(c Church) ChurchRef {
	return ChurchRef{Church: c, Resolved: true}
}

// UnresolvedRef is the placeholder reference used when no church can be
// determined for a record.
func UnresolvedRef() ChurchRef {
	return ChurchRef{Church: Church{ID: PlaceholderChurchID, Name: PlaceholderChurchName}}
}

// ID returns the referenced church identifier, or the placeholder id when
// unresolved.
func (r ChurchRef) ID() string {
	if !r.Resolved {
		return PlaceholderChurchID
	}
	return r.Church.ID
}

// UnmarshalJSON accepts the three persisted shapes: a full church object, a
// bare identifier string, or null/absent. Sentinel identifiers decode to the
// unresolved state.
func (r *ChurchRef) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*r = ChurchRef{}
		return nil
	}
	if trimmed[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			*r = ChurchRef{}
			return nil
		}
		if id == "" || sentinelChurchID(id) {
			*r = ChurchRef{}
			return nil
		}
		*r = ResolvedRef(Church{ID: id})
		return nil
	}
	var c Church
	if err := json.Unmarshal(data, &c); err != nil {
		// Tolerate malformed church fields; the record degrades to the
		// placeholder instead of failing the whole report.
		*r = ChurchRef{}
		return nil
	}
	if sentinelChurchID(c.ID) {
		*r = ChurchRef{}
		return nil
	}
	*r = ResolvedRef(c)
	return nil
}

// MarshalJSON writes the placeholder object for unresolved references so the
// persisted form always carries a non-null church.
func (r ChurchRef) MarshalJSON() ([]byte, error) {
	if !r.Resolved {
		return json.Marshal(UnresolvedRef().Church)
	}
	return json.Marshal(r.Church)
}
