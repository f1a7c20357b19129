package services

import (
	"github.com/tigarcia/validator-version-monitor/models"
)

// Merge joins the snapshot against the three registries. It's a one-to-one,
// order preserving projection: no record is dropped or duplicated whatever
// the tables contain, and nil tables behave as empty.
func Merge(snapshot []models.SnapshotRecord, names models.NameTable, participation models.ParticipationTable, infra models.InfraTable) []models.Validator {
	out := make([]models.Validator, len(snapshot))

	for i, rec := range snapshot {
		v := models.Validator{
			IdentityPubkey:    rec.IdentityPubkey,
			VoteAccountPubkey: rec.VoteAccountPubkey,
			ActivatedStake:    rec.ActivatedStake,
			Version:           rec.Version,
			Delinquent:        rec.Delinquent,
			Name:              models.PrivateValidatorName,
		}

		if name, ok := names[rec.VoteAccountPubkey]; ok && name != "" {
			v.Name = name
		}

		if p, ok := participation[rec.IdentityPubkey]; ok && p.Participant {
			v.Sfdp = true
			state := p.State
			v.SfdpState = &state
		}

		if info, ok := infra[rec.VoteAccountPubkey]; ok {
			v.AutonomousSystemNumber = copyInt(info.ASN)
			v.DataCenterKey = copyString(info.DataCenter)
			v.SoftwareClient = copyString(info.Client)
		}

		out[i] = v
	}

	return out
}

// MergeTables is Merge over a bundled set of tables
func MergeTables(snapshot []models.SnapshotRecord, tables models.EnrichmentTables) []models.Validator {
	return Merge(snapshot, tables.Names, tables.Participation, tables.Infra)
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
