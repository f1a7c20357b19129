package models

import "sort"

// SFDP filter modes. Any other value is matched literally against the state.
const (
	SfdpAll            = "all"
	SfdpParticipant    = "sfdp"
	SfdpNonParticipant = "non-sfdp"
)

// Sortable fields
const (
	SortName           = "name"
	SortIdentity       = "identityPubkey"
	SortVoteAccount    = "voteAccountPubkey"
	SortStake          = "activatedStake"
	SortVersion        = "version"
	SortSfdpState      = "sfdpState"
	SortDelinquent     = "delinquent"
	SortSoftwareClient = "softwareClient"
	SortASN            = "autonomousSystemNumber"
	SortDataCenter     = "dataCenterKey"
)

var SortKeys = []string{
	SortName, SortIdentity, SortVoteAccount, SortStake, SortVersion, SortSfdpState,
	SortDelinquent, SortSoftwareClient, SortASN, SortDataCenter,
}

func IsSortKey(key string) bool {
	for _, k := range SortKeys {
		if k == key {
			return true
		}
	}
	return false
}

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// StringSet is a copy-on-write set; the zero value is empty.
type StringSet map[string]struct{}

func NewStringSet(values ...string) StringSet {
	s := make(StringSet, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s StringSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

func (s StringSet) Len() int {
	return len(s)
}

// Sorted returns the members in lexical order
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Toggle returns a new set with v added or removed
func (s StringSet) Toggle(v string) StringSet {
	out := make(StringSet, len(s)+1)
	for k := range s {
		out[k] = struct{}{}
	}
	if _, ok := out[v]; ok {
		delete(out, v)
	} else {
		out[v] = struct{}{}
	}
	return out
}

func (s StringSet) Equal(o StringSet) bool {
	if len(s) != len(o) {
		return false
	}
	for k := range s {
		if !o.Has(k) {
			return false
		}
	}
	return true
}

// FilterState selects the visible validators. An empty set leaves its
// dimension unconstrained.
type FilterState struct {
	Versions    StringSet `json:"versions"`
	Sfdp        string    `json:"sfdp"`
	Clients     StringSet `json:"clients"`
	ASNs        StringSet `json:"asns"`
	DataCenters StringSet `json:"datacenters"`
}

func DefaultFilterState() FilterState {
	return FilterState{Sfdp: SfdpAll}
}

func (f FilterState) IsDefault() bool {
	return f.Versions.Len() == 0 && f.Clients.Len() == 0 && f.ASNs.Len() == 0 &&
		f.DataCenters.Len() == 0 && (f.Sfdp == "" || f.Sfdp == SfdpAll)
}

func (f FilterState) Equal(o FilterState) bool {
	sfdp := func(s string) string {
		if s == "" {
			return SfdpAll
		}
		return s
	}
	return sfdp(f.Sfdp) == sfdp(o.Sfdp) &&
		f.Versions.Equal(o.Versions) &&
		f.Clients.Equal(o.Clients) &&
		f.ASNs.Equal(o.ASNs) &&
		f.DataCenters.Equal(o.DataCenters)
}

// SortState is the single active sort column
type SortState struct {
	Key string `json:"key"`
	Dir string `json:"dir"`
}

func DefaultSortState() SortState {
	return SortState{Key: SortStake, Dir: SortDesc}
}

func (s SortState) IsDefault() bool {
	return s == DefaultSortState()
}

// Notification is the transient, dismissible message shown for user-facing outcomes
type Notification struct {
	Message string `json:"message"`
	IsError bool   `json:"isError"`
}
