package services

import (
	"sort"
	"strings"

	"github.com/tigarcia/validator-version-monitor/models"
)

// Compare orders a and b on key using the field's natural order: numeric for
// stake and ASN, lexical for strings, false before true. Missing values
// compare as "" or 0. "desc" flips the sign.
func Compare(a, b models.Validator, key, dir string) int {
	c := compareField(a, b, key)
	if dir == models.SortDesc {
		return -c
	}
	return c
}

func compareField(a, b models.Validator, key string) int {
	switch key {
	case models.SortName:
		return strings.Compare(a.Name, b.Name)
	case models.SortIdentity:
		return strings.Compare(a.IdentityPubkey, b.IdentityPubkey)
	case models.SortVoteAccount:
		return strings.Compare(a.VoteAccountPubkey, b.VoteAccountPubkey)
	case models.SortVersion:
		return strings.Compare(a.Version, b.Version)
	case models.SortSfdpState:
		return strings.Compare(deref(a.SfdpState), deref(b.SfdpState))
	case models.SortSoftwareClient:
		return strings.Compare(deref(a.SoftwareClient), deref(b.SoftwareClient))
	case models.SortDataCenter:
		return strings.Compare(deref(a.DataCenterKey), deref(b.DataCenterKey))
	case models.SortDelinquent:
		return compareBool(a.Delinquent, b.Delinquent)
	case models.SortASN:
		return compareInt(derefInt(a.AutonomousSystemNumber), derefInt(b.AutonomousSystemNumber))
	default:
		switch {
		case a.ActivatedStake < b.ActivatedStake:
			return -1
		case a.ActivatedStake > b.ActivatedStake:
			return 1
		}
		return 0
	}
}

// SortValidators returns a stably sorted copy. Records that compare equal
// keep their input order, so re-sorting on the same key is idempotent.
func SortValidators(records []models.Validator, s models.SortState) []models.Validator {
	key := s.Key
	if !models.IsSortKey(key) {
		key = models.SortStake
	}
	dir := s.Dir
	if dir != models.SortAsc {
		dir = models.SortDesc
	}

	out := make([]models.Validator, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return Compare(out[i], out[j], key, dir) < 0
	})
	return out
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}
