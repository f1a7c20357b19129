package services

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/tigarcia/validator-version-monitor/models"
	"github.com/tigarcia/validator-version-monitor/utils"
)

// Query parameter names of the shareable table URL
const (
	ParamVersions    = "versions"
	ParamSfdp        = "sfdp"
	ParamSort        = "sort"
	ParamSortDir     = "sortDir"
	ParamClients     = "clients"
	ParamASNs        = "asns"
	ParamDataCenters = "datacenters"
)

const listSeparator = ","

// DecodeQuery reads filter and sort state from query parameters. Absent or
// malformed values fall back to the default of their own dimension only.
func DecodeQuery(q url.Values) (models.FilterState, models.SortState) {
	f := models.DefaultFilterState()
	s := models.DefaultSortState()

	f.Versions = splitList(q.Get(ParamVersions), nil)
	f.Clients = splitList(q.Get(ParamClients), unescapeItem)
	f.ASNs = splitList(q.Get(ParamASNs), func(v string) (string, bool) {
		v = strings.TrimSpace(v)
		if v == utils.UnknownLabel {
			return v, true
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return "", false
		}
		return strconv.Itoa(n), true
	})
	f.DataCenters = splitList(q.Get(ParamDataCenters), unescapeItem)

	if sfdp := strings.TrimSpace(q.Get(ParamSfdp)); sfdp != "" {
		f.Sfdp = sfdp
	}

	if key := q.Get(ParamSort); models.IsSortKey(key) {
		s.Key = key
	}
	switch q.Get(ParamSortDir) {
	case models.SortAsc:
		s.Dir = models.SortAsc
	case models.SortDesc:
		s.Dir = models.SortDesc
	}

	return f, s
}

// EncodeQuery is the inverse of DecodeQuery. Dimensions at their default are
// left out, so the default state encodes to no parameters at all. List
// members are sorted to keep the output canonical.
func EncodeQuery(f models.FilterState, s models.SortState) url.Values {
	q := url.Values{}

	if f.Versions.Len() > 0 {
		q.Set(ParamVersions, strings.Join(f.Versions.Sorted(), listSeparator))
	}
	if f.Sfdp != "" && f.Sfdp != models.SfdpAll {
		q.Set(ParamSfdp, f.Sfdp)
	}
	if f.Clients.Len() > 0 {
		q.Set(ParamClients, joinEscaped(f.Clients))
	}
	if f.ASNs.Len() > 0 {
		q.Set(ParamASNs, strings.Join(f.ASNs.Sorted(), listSeparator))
	}
	if f.DataCenters.Len() > 0 {
		q.Set(ParamDataCenters, joinEscaped(f.DataCenters))
	}

	def := models.DefaultSortState()
	if s.Key != def.Key && models.IsSortKey(s.Key) {
		q.Set(ParamSort, s.Key)
	}
	if s.Dir == models.SortAsc {
		q.Set(ParamSortDir, models.SortAsc)
	}

	return q
}

// Registry-sourced values (clients, data centers) may contain the separator,
// so each member is escaped on its own before joining.
func joinEscaped(set models.StringSet) string {
	items := set.Sorted()
	for i, item := range items {
		items[i] = url.QueryEscape(item)
	}
	return strings.Join(items, listSeparator)
}

func unescapeItem(v string) (string, bool) {
	decoded, err := url.QueryUnescape(v)
	if err != nil || decoded == "" {
		return "", false
	}
	return decoded, true
}

func splitList(raw string, normalize func(string) (string, bool)) models.StringSet {
	set := models.NewStringSet()
	if raw == "" {
		return set
	}
	for _, part := range strings.Split(raw, listSeparator) {
		if part == "" {
			continue
		}
		if normalize != nil {
			var ok bool
			if part, ok = normalize(part); !ok {
				continue
			}
		}
		set[part] = struct{}{}
	}
	return set
}

// QuerySync links in-memory state to the URL query. Navigation events go
// through Load and user edits through Update; the two never feed each
// other. A Load of the query that Update itself just wrote is ignored, and
// an Update that would not change the query reports no change.
type QuerySync struct {
	filter      models.FilterState
	sort        models.SortState
	lastWritten string
	loaded      bool
}

func NewQuerySync() *QuerySync {
	return &QuerySync{
		filter: models.DefaultFilterState(),
		sort:   models.DefaultSortState(),
	}
}

// Load seeds state from an external navigation. It returns false when the
// query is the one this sync last produced.
func (qs *QuerySync) Load(q url.Values) (models.FilterState, models.SortState, bool) {
	if qs.loaded && q.Encode() == qs.lastWritten {
		return qs.filter, qs.sort, false
	}
	qs.filter, qs.sort = DecodeQuery(q)
	qs.lastWritten = EncodeQuery(qs.filter, qs.sort).Encode()
	qs.loaded = true
	return qs.filter, qs.sort, true
}

// Update records a user-driven change and returns the query to publish.
// changed is false when the encoded query is identical to the current one.
func (qs *QuerySync) Update(f models.FilterState, s models.SortState) (url.Values, bool) {
	q := EncodeQuery(f, s)
	encoded := q.Encode()
	qs.filter, qs.sort = f, s
	qs.loaded = true
	if encoded == qs.lastWritten {
		return q, false
	}
	qs.lastWritten = encoded
	return q, true
}

func (qs *QuerySync) State() (models.FilterState, models.SortState) {
	return qs.filter, qs.sort
}
