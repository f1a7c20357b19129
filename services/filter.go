package services

import (
	"github.com/tigarcia/validator-version-monitor/models"
)

// ApplyFilter keeps the records matching every dimension of f. Empty
// selections don't constrain; missing values match the "Unknown" option.
// The input slice is not modified.
func ApplyFilter(records []models.Validator, f models.FilterState) []models.Validator {
	out := make([]models.Validator, 0, len(records))
	for _, v := range records {
		if Matches(v, f) {
			out = append(out, v)
		}
	}
	return out
}

// Matches reports whether a single record passes f
func Matches(v models.Validator, f models.FilterState) bool {
	if !matchesSfdp(v, f.Sfdp) {
		return false
	}
	if f.Versions.Len() > 0 && !f.Versions.Has(VersionKeyOf(v)) {
		return false
	}
	if f.Clients.Len() > 0 && !f.Clients.Has(ClientOf(v)) {
		return false
	}
	if f.ASNs.Len() > 0 && !f.ASNs.Has(ASNOf(v)) {
		return false
	}
	if f.DataCenters.Len() > 0 && !f.DataCenters.Has(DataCenterOf(v)) {
		return false
	}
	return true
}

func matchesSfdp(v models.Validator, mode string) bool {
	switch mode {
	case "", models.SfdpAll:
		return true
	case models.SfdpParticipant:
		return v.Sfdp
	case models.SfdpNonParticipant:
		return !v.Sfdp
	default:
		return v.Sfdp && v.SfdpState != nil && *v.SfdpState == mode
	}
}

// BuildFilterOptions lists every selectable value per dimension. SFDP states
// are sorted lexically, the other dimensions by descending stake.
func BuildFilterOptions(records []models.Validator) models.FilterOptions {
	states := models.NewStringSet()
	for _, v := range records {
		if v.Sfdp && v.SfdpState != nil && *v.SfdpState != "" {
			states[*v.SfdpState] = struct{}{}
		}
	}

	keys := func(fn KeyFunc) []string {
		shares := Aggregate(records, records, fn)
		out := make([]string, len(shares))
		for i, s := range shares {
			out[i] = s.Key
		}
		return out
	}

	return models.FilterOptions{
		SfdpStates:  states.Sorted(),
		Clients:     keys(ClientOf),
		ASNs:        keys(ASNOf),
		DataCenters: keys(DataCenterOf),
	}
}
