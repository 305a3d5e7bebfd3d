package alert

import (
	"fmt"
	"strings"

	apperrors "github.com/pratik-mahalle/alertprobe/internal/pkg/errors"
)

// Observation is what one surface knows about an alert. API records fill
// every field; rows scraped from the UI usually carry only display text.
type Observation struct {
	PolicyID         string `json:"policyId,omitempty"`
	PolicyName       string `json:"policyName,omitempty"`
	AssetDisplayName string `json:"assetDisplayName,omitempty"`
	AssetLocation    string `json:"assetLocation,omitempty"`
}

// Identity is the natural key of an alert across surfaces
type Identity struct {
	PolicyKey string `json:"policyKey"`
	AssetKey  string `json:"assetKey"`
}

// IsEmpty reports whether both keys are empty. An empty identity matches nothing.
func (id Identity) IsEmpty() bool {
	return id.PolicyKey == "" && id.AssetKey == ""
}

func (id Identity) String() string {
	return fmt.Sprintf("(%s, %s)", id.PolicyKey, id.AssetKey)
}

// Observation returns the identity-bearing fields of the alert.
func (a *Alert) Observation() Observation {
	return Observation{
		PolicyID:         a.PolicyID,
		PolicyName:       a.PolicyName,
		AssetDisplayName: a.AssetDisplayName,
		AssetLocation:    a.AssetLocation,
	}
}

// Identity resolves the alert's natural key.
func (a *Alert) Identity() Identity {
	return ResolveIdentity(a.Observation())
}

// RowObservation builds an observation from the policy and asset cells of a
// UI table row.
func RowObservation(policyCell, assetCell string) Observation {
	return Observation{PolicyName: policyCell, AssetDisplayName: assetCell}
}

// Normalize trims, lower-cases and collapses internal whitespace.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// ResolveIdentity computes the normalized policy and asset keys. The policy
// name is preferred over the id, the display name over the location.
func ResolveIdentity(o Observation) Identity {
	policy := Normalize(o.PolicyName)
	if policy == "" {
		policy = Normalize(o.PolicyID)
	}
	asset := Normalize(o.AssetDisplayName)
	if asset == "" {
		asset = Normalize(o.AssetLocation)
	}
	return Identity{PolicyKey: policy, AssetKey: asset}
}

// SameAlert reports whether two observations refer to the same logical alert
// by exact key comparison.
func SameAlert(a, b Observation) bool {
	return SameIdentity(ResolveIdentity(a), ResolveIdentity(b))
}

// SameIdentity is SameAlert on already resolved identities.
func SameIdentity(a, b Identity) bool {
	if a.IsEmpty() || b.IsEmpty() {
		return false
	}
	return a.PolicyKey == b.PolicyKey && a.AssetKey == b.AssetKey
}

// LooselySameIdentity matches identities whose keys are equal or where one
// key contains the other. It is meant for truncated or reformatted UI text.
func LooselySameIdentity(a, b Identity) bool {
	if a.IsEmpty() || b.IsEmpty() {
		return false
	}
	return keysOverlap(a.PolicyKey, b.PolicyKey) && keysOverlap(a.AssetKey, b.AssetKey)
}

func keysOverlap(a, b string) bool {
	if a == b {
		return true
	}
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// MatchFragment compares a UI fragment with an API record. Exact matching is
// tried first; containment is the fallback. The second result reports
// whether the fallback was needed.
func MatchFragment(fragment, record Observation) (matched, loose bool) {
	f, r := ResolveIdentity(fragment), ResolveIdentity(record)
	if SameIdentity(f, r) {
		return true, false
	}
	if LooselySameIdentity(f, r) {
		return true, true
	}
	return false, false
}

// FindByIdentity returns the single alert matching id. Exact matches are
// preferred; containment matches are considered only when no alert matches
// exactly. Zero or several matches fail with IDENTITY_AMBIGUOUS.
func FindByIdentity(id Identity, alerts []*Alert) (*Alert, error) {
	if id.IsEmpty() {
		return nil, apperrors.IdentityAmbiguous(id.String(), 0)
	}

	exact := filterAlerts(alerts, func(a *Alert) bool { return SameIdentity(id, a.Identity()) })
	if len(exact) == 1 {
		return exact[0], nil
	}
	if len(exact) > 1 {
		return nil, apperrors.IdentityAmbiguous(id.String(), len(exact))
	}

	loose := filterAlerts(alerts, func(a *Alert) bool { return LooselySameIdentity(id, a.Identity()) })
	if len(loose) != 1 {
		return nil, apperrors.IdentityAmbiguous(id.String(), len(loose))
	}
	return loose[0], nil
}

// FindDuplicates returns alerts other than excludeID that match id exactly and
// are in the given status.
func FindDuplicates(id Identity, excludeID string, status Status, alerts []*Alert) []*Alert {
	return filterAlerts(alerts, func(a *Alert) bool {
		return a.ID != excludeID && a.Status == status && SameIdentity(id, a.Identity())
	})
}

func filterAlerts(alerts []*Alert, keep func(*Alert) bool) []*Alert {
	var out []*Alert
	for _, a := range alerts {
		if a != nil && keep(a) {
			out = append(out, a)
		}
	}
	return out
}
