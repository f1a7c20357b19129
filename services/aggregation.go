package services

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/tigarcia/validator-version-monitor/models"
	"github.com/tigarcia/validator-version-monitor/utils"
)

// Dimension names a partitioning of the validator set
type Dimension string

const (
	DimensionVersion    Dimension = "version"
	DimensionMinorGroup Dimension = "minorGroup"
	DimensionClient     Dimension = "client"
	DimensionASN        Dimension = "asn"
	DimensionDataCenter Dimension = "datacenter"
)

var ErrUnknownDimension = errors.New("unknown dimension")

// KeyFunc assigns a validator to a partition
type KeyFunc func(models.Validator) string

func VersionKeyOf(v models.Validator) string {
	return utils.VersionKey(v.Version)
}

func MinorGroupOf(v models.Validator) string {
	return utils.GetMinorVersionGroup(v.Version)
}

func ClientOf(v models.Validator) string {
	if v.SoftwareClient == nil || *v.SoftwareClient == "" {
		return utils.UnknownLabel
	}
	return *v.SoftwareClient
}

func ASNOf(v models.Validator) string {
	if v.AutonomousSystemNumber == nil {
		return utils.UnknownLabel
	}
	return strconv.Itoa(*v.AutonomousSystemNumber)
}

func DataCenterOf(v models.Validator) string {
	if v.DataCenterKey == nil || *v.DataCenterKey == "" {
		return utils.UnknownLabel
	}
	return *v.DataCenterKey
}

// KeyFuncFor resolves a dimension to its partition function
func KeyFuncFor(dim Dimension) (KeyFunc, error) {
	switch dim {
	case DimensionVersion:
		return VersionKeyOf, nil
	case DimensionMinorGroup:
		return MinorGroupOf, nil
	case DimensionClient:
		return ClientOf, nil
	case DimensionASN:
		return ASNOf, nil
	case DimensionDataCenter:
		return DataCenterOf, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDimension, dim)
}

func TotalStake(records []models.Validator) uint64 {
	var total uint64
	for _, v := range records {
		total += v.ActivatedStake
	}
	return total
}

// StakePercentage formats stake/total as a percentage with two decimals.
// A zero total yields "0.00".
func StakePercentage(stake, total uint64) string {
	if total == 0 {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", float64(stake)/float64(total)*100)
}

// partition sums stake per key, keeping keys in first-seen order
func partition(records []models.Validator, keyFn KeyFunc) []models.StakeShare {
	index := make(map[string]int)
	shares := make([]models.StakeShare, 0)

	for _, v := range records {
		key := keyFn(v)
		i, ok := index[key]
		if !ok {
			i = len(shares)
			index[key] = i
			shares = append(shares, models.StakeShare{Key: key})
		}
		shares[i].Stake += v.ActivatedStake
		shares[i].Count++
	}
	return shares
}

// Aggregate sums the stake of subset per key. Percentages are relative to the
// total stake of all, so a filtered subset still reports network-wide shares.
// Result is ordered by descending stake, ties in first-seen order.
func Aggregate(subset, all []models.Validator, keyFn KeyFunc) []models.StakeShare {
	total := TotalStake(all)
	shares := partition(subset, keyFn)

	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Stake > shares[j].Stake
	})

	for i := range shares {
		shares[i].StakePercentage = StakePercentage(shares[i].Stake, total)
	}
	return shares
}

// AggregateByDimension is Aggregate over a named dimension. Version-like
// dimensions come back in version order instead of stake order.
func AggregateByDimension(subset, all []models.Validator, dim Dimension) ([]models.StakeShare, error) {
	keyFn, err := KeyFuncFor(dim)
	if err != nil {
		return nil, err
	}

	shares := Aggregate(subset, all, keyFn)

	switch dim {
	case DimensionVersion:
		sort.SliceStable(shares, func(i, j int) bool {
			return utils.CompareVersionsDesc(shares[i].Key, shares[j].Key) < 0
		})
	case DimensionMinorGroup:
		sort.SliceStable(shares, func(i, j int) bool {
			return utils.CompareGroupsDesc(shares[i].Key, shares[j].Key) < 0
		})
	}
	return shares, nil
}

// VersionGroups is the two-level version -> minor group partition. Every
// version lands in exactly the group GetMinorVersionGroup names, and a group's
// stake is the sum of its versions.
func VersionGroups(subset, all []models.Validator) []models.VersionGroup {
	total := TotalStake(all)
	versions := partition(subset, VersionKeyOf)

	groupIndex := make(map[string]int)
	groups := make([]models.VersionGroup, 0)

	for _, share := range versions {
		share.StakePercentage = StakePercentage(share.Stake, total)

		g := utils.GetMinorVersionGroup(share.Key)
		i, ok := groupIndex[g]
		if !ok {
			i = len(groups)
			groupIndex[g] = i
			groups = append(groups, models.VersionGroup{Group: g})
		}
		groups[i].Stake += share.Stake
		groups[i].Versions = append(groups[i].Versions, share)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return utils.CompareGroupsDesc(groups[i].Group, groups[j].Group) < 0
	})

	for i := range groups {
		groups[i].StakePercentage = StakePercentage(groups[i].Stake, total)
		vs := groups[i].Versions
		sort.SliceStable(vs, func(a, b int) bool {
			return utils.CompareVersionsDesc(vs[a].Key, vs[b].Key) < 0
		})
	}
	return groups
}

// Summarize computes the table header figures
func Summarize(filtered, all []models.Validator) models.Summary {
	total := TotalStake(all)
	matching := TotalStake(filtered)

	var sfdpStake uint64
	delinquent := 0
	for _, v := range all {
		if v.Sfdp {
			sfdpStake += v.ActivatedStake
		}
	}
	for _, v := range filtered {
		if v.Delinquent {
			delinquent++
		}
	}

	return models.Summary{
		TotalValidators:    len(all),
		MatchingValidators: len(filtered),
		TotalStake:         total,
		MatchingStake:      matching,
		MatchingPercentage: StakePercentage(matching, total),
		SfdpStake:          sfdpStake,
		SfdpPercentage:     StakePercentage(sfdpStake, total),
		DelinquentCount:    delinquent,
	}
}
