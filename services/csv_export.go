package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"time"

	"github.com/tigarcia/validator-version-monitor/models"
	"github.com/tigarcia/validator-version-monitor/utils"
)

// ErrEmptyExport is returned when there is nothing to export
var ErrEmptyExport = errors.New("no validators match the current filters")

const utf8BOM = "\ufeff"

var csvHeader = []string{
	"Name",
	"Identity",
	"Vote Account",
	"Stake (SOL)",
	"Stake %",
	"Version",
	"Minor Group",
	"SFDP State",
	"Active",
	"Software Client",
	"ASN",
	"ASN Provider",
	"Data Center",
}

// ExportCSV renders rows in the order given. Percentages are relative to the
// total stake of all. Fields holding a comma, quote or newline are quoted
// with inner quotes doubled.
func ExportCSV(rows, all []models.Validator, now time.Time) (string, []byte, error) {
	if len(rows) == 0 {
		return "", nil, ErrEmptyExport
	}

	total := TotalStake(all)

	var buf bytes.Buffer
	buf.WriteString(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return "", nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, v := range rows {
		sfdpState := "N/A"
		if v.SfdpState != nil && *v.SfdpState != "" {
			sfdpState = *v.SfdpState
		}
		active := "Yes"
		if v.Delinquent {
			active = "No"
		}

		record := []string{
			v.Name,
			v.IdentityPubkey,
			v.VoteAccountPubkey,
			FormatSOL(v.ActivatedStake),
			StakePercentage(v.ActivatedStake, total),
			utils.VersionKey(v.Version),
			utils.GetMinorVersionGroup(v.Version),
			sfdpState,
			active,
			ClientOf(v),
			ASNOf(v),
			utils.AsnProviderName(v.AutonomousSystemNumber),
			DataCenterOf(v),
		}
		if err := w.Write(record); err != nil {
			return "", nil, fmt.Errorf("write csv row for %s: %w", v.VoteAccountPubkey, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", nil, fmt.Errorf("flush csv: %w", err)
	}

	return ExportFilename(now), buf.Bytes(), nil
}

func ExportFilename(now time.Time) string {
	return "validators-" + now.UTC().Format("2006-01-02") + ".csv"
}

// FormatSOL converts lamports to SOL with two decimals
func FormatSOL(lamports uint64) string {
	return fmt.Sprintf("%.2f", float64(lamports)/models.LamportsPerSOL)
}
