package models

// LamportsPerSOL converts stake units to SOL for display
const LamportsPerSOL = 1_000_000_000

// PrivateValidatorName is used when the name registry has no entry
const PrivateValidatorName = "private validator"

// SnapshotRecord is one entry of the validator snapshot file
type SnapshotRecord struct {
	IdentityPubkey    string `json:"identityPubkey"`
	VoteAccountPubkey string `json:"voteAccountPubkey"`
	ActivatedStake    uint64 `json:"activatedStake"`
	Version           string `json:"version"`
	Delinquent        bool   `json:"delinquent"`

	// Optional, only used for the local GeoIP fallback
	GossipIP string `json:"gossipIp,omitempty"`
}

// Validator is a snapshot record joined with the three registries.
// It is built once per merge and never mutated.
type Validator struct {
	IdentityPubkey    string `json:"identityPubkey"`
	VoteAccountPubkey string `json:"voteAccountPubkey"`
	ActivatedStake    uint64 `json:"activatedStake"`
	Version           string `json:"version"`
	Delinquent        bool   `json:"delinquent"`

	Name      string  `json:"name"`
	Sfdp      bool    `json:"sfdp"`
	SfdpState *string `json:"sfdpState"`

	AutonomousSystemNumber *int    `json:"autonomousSystemNumber"`
	DataCenterKey          *string `json:"dataCenterKey"`
	SoftwareClient         *string `json:"softwareClient"`
}

// ParticipationInfo is an SFDP registry entry
type ParticipationInfo struct {
	Participant bool   `json:"participant"`
	State       string `json:"state"`
}

// InfraInfo is an infrastructure registry entry; every field may be missing
type InfraInfo struct {
	ASN        *int    `json:"asn"`
	DataCenter *string `json:"dataCenter"`
	Client     *string `json:"client"`
}

// NameTable maps vote key -> display name
type NameTable map[string]string

// ParticipationTable maps identity key -> participation entry
type ParticipationTable map[string]ParticipationInfo

// InfraTable maps vote key -> infrastructure entry
type InfraTable map[string]InfraInfo

// EnrichmentTables bundles the three registry lookups for one merge pass
type EnrichmentTables struct {
	Names         NameTable
	Participation ParticipationTable
	Infra         InfraTable
}
