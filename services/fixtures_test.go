package services

import "github.com/tigarcia/validator-version-monitor/models"

const sol = models.LamportsPerSOL

func strPtr(v string) *string { return &v }
func intPtr(v int) *int { return &v }

// fixture is a small network of 1000 SOL:
//
//	alpha  400  3.1.8        sfdp Approved  Hetzner  Agave
//	bravo  300  0.811.30108  sfdp Pending   OVH      Firedancer
//	charlie 200 (no version) delinquent, no registry data at all
//	delta  100  3.0.1        Hetzner, no data center, Agave
func fixture() []models.Validator {
	return []models.Validator{
		{
			IdentityPubkey:         "id-a",
			VoteAccountPubkey:      "vote-a",
			ActivatedStake:         400 * sol,
			Version:                "3.1.8",
			Name:                   "Alpha",
			Sfdp:                   true,
			SfdpState:              strPtr("Approved"),
			AutonomousSystemNumber: intPtr(24940),
			DataCenterKey:          strPtr("24940-DE-Falkenstein"),
			SoftwareClient:         strPtr("Agave"),
		},
		{
			IdentityPubkey:         "id-b",
			VoteAccountPubkey:      "vote-b",
			ActivatedStake:         300 * sol,
			Version:                "0.811.30108",
			Name:                   "Bravo",
			Sfdp:                   true,
			SfdpState:              strPtr("Pending"),
			AutonomousSystemNumber: intPtr(16276),
			DataCenterKey:          strPtr("16276-FR-Roubaix"),
			SoftwareClient:         strPtr("Firedancer"),
		},
		{
			IdentityPubkey:    "id-c",
			VoteAccountPubkey: "vote-c",
			ActivatedStake:    200 * sol,
			Version:           "",
			Name:              models.PrivateValidatorName,
			Delinquent:        true,
		},
		{
			IdentityPubkey:         "id-d",
			VoteAccountPubkey:      "vote-d",
			ActivatedStake:         100 * sol,
			Version:                "3.0.1",
			Name:                   "Delta",
			AutonomousSystemNumber: intPtr(24940),
			SoftwareClient:         strPtr("Agave"),
		},
	}
}

func voteKeys(records []models.Validator) []string {
	keys := make([]string, len(records))
	for i, v := range records {
		keys[i] = v.VoteAccountPubkey
	}
	return keys
}
