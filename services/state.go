package services

import (
	"github.com/tigarcia/validator-version-monitor/models"
	"github.com/tigarcia/validator-version-monitor/utils"
)

// Filter and sort transitions. Each returns a new state and leaves its
// input untouched.

func ToggleVersion(f models.FilterState, version string) models.FilterState {
	f.Versions = f.Versions.Toggle(utils.VersionKey(version))
	return f
}

// ToggleVersionGroup selects every listed version of group, or clears them
// all when the group is already fully selected.
func ToggleVersionGroup(f models.FilterState, group models.VersionGroup) models.FilterState {
	allSelected := len(group.Versions) > 0
	for _, v := range group.Versions {
		if !f.Versions.Has(v.Key) {
			allSelected = false
			break
		}
	}

	next := models.NewStringSet(f.Versions.Sorted()...)
	for _, v := range group.Versions {
		if allSelected {
			delete(next, v.Key)
		} else {
			next[v.Key] = struct{}{}
		}
	}
	f.Versions = next
	return f
}

func SetSfdpFilter(f models.FilterState, mode string) models.FilterState {
	if mode == "" {
		mode = models.SfdpAll
	}
	f.Sfdp = mode
	return f
}

func ToggleClient(f models.FilterState, client string) models.FilterState {
	f.Clients = f.Clients.Toggle(client)
	return f
}

func ToggleASN(f models.FilterState, asn string) models.FilterState {
	f.ASNs = f.ASNs.Toggle(asn)
	return f
}

func ToggleDataCenter(f models.FilterState, dc string) models.FilterState {
	f.DataCenters = f.DataCenters.Toggle(dc)
	return f
}

func ClearFilters() models.FilterState {
	return models.DefaultFilterState()
}

// ToggleSort flips the direction when key is already active, otherwise
// switches to key descending.
func ToggleSort(s models.SortState, key string) models.SortState {
	if !models.IsSortKey(key) {
		return s
	}
	if s.Key == key {
		if s.Dir == models.SortAsc {
			return models.SortState{Key: key, Dir: models.SortDesc}
		}
		return models.SortState{Key: key, Dir: models.SortAsc}
	}
	return models.SortState{Key: key, Dir: models.SortDesc}
}
