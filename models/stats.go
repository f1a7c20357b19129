package models

import "time"

// StakeShare is one partition of an aggregation
type StakeShare struct {
	Key             string `json:"key"`
	Stake           uint64 `json:"stake"`
	StakePercentage string `json:"stakePercentage"`
	Count           int    `json:"count"`
}

// VersionGroup is a minor group and the versions it contains
type VersionGroup struct {
	Group           string       `json:"group"`
	Stake           uint64       `json:"stake"`
	StakePercentage string       `json:"stakePercentage"`
	Versions        []StakeShare `json:"versions"`
}

// Summary holds the header figures of the validator table
type Summary struct {
	TotalValidators    int    `json:"totalValidators"`
	MatchingValidators int    `json:"matchingValidators"`
	TotalStake         uint64 `json:"totalStake"`
	MatchingStake      uint64 `json:"matchingStake"`
	MatchingPercentage string `json:"matchingPercentage"`
	SfdpStake          uint64 `json:"sfdpStake"`
	SfdpPercentage     string `json:"sfdpPercentage"`
	DelinquentCount    int    `json:"delinquentCount"`
}

// FilterOptions lists the values each filter dimension can take
type FilterOptions struct {
	SfdpStates  []string `json:"sfdpStates"`
	Clients     []string `json:"clients"`
	ASNs        []string `json:"asns"`
	DataCenters []string `json:"datacenters"`
}

// VersionHistoryPoint is one refresh worth of minor group stake shares
type VersionHistoryPoint struct {
	Timestamp  time.Time    `json:"timestamp" bson:"timestamp"`
	TotalStake uint64       `json:"total_stake" bson:"total_stake"`
	Validators int          `json:"validators" bson:"validators"`
	Groups     []GroupPoint `json:"groups" bson:"groups"`
}

// GroupPoint avoids dotted map keys, which MongoDB handles poorly
type GroupPoint struct {
	Group      string  `json:"group" bson:"group"`
	Stake      uint64  `json:"stake" bson:"stake"`
	Percentage float64 `json:"percentage" bson:"percentage"`
}
