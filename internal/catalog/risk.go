package catalog

import "strings"

// Risk classifies how dangerous it is to run a category's dorks.
// Categories rated RiskHigh or RiskCritical are treated as sensitive
// and skipped unless the operator explicitly allows them.
//
// Design decision: Risk is a string type rather than an iota enum
// because the values come straight from user-authored catalog files
// and go straight back out in reports; round-tripping strings avoids
// a mapping layer in both loaders.
type Risk string

const (
	// RiskLow marks categories that surface broadly public material.
	RiskLow Risk = "low"

	// RiskMedium marks categories that may surface internal material.
	RiskMedium Risk = "medium"

	// RiskHigh marks categories likely to surface credentials or
	// other sensitive material. Implies the sensitive gate.
	RiskHigh Risk = "high"

	// RiskCritical marks categories that target secrets directly.
	// Implies the sensitive gate.
	RiskCritical Risk = "critical"

	// RiskUnknown is assigned to bare pattern lists and to
	// unrecognized risk strings.
	RiskUnknown Risk = "unknown"
)

// ParseRisk normalizes a catalog risk string. Unrecognized values map
// to RiskUnknown rather than failing, so a typo in one entry cannot
// abort a whole run.
func ParseRisk(s string) Risk {
	switch Risk(strings.ToLower(strings.TrimSpace(s))) {
	case RiskLow:
		return RiskLow
	case RiskMedium:
		return RiskMedium
	case RiskHigh:
		return RiskHigh
	case RiskCritical:
		return RiskCritical
	default:
		return RiskUnknown
	}
}
