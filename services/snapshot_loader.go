package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/tigarcia/validator-version-monitor/models"
)

// DecodeSnapshot accepts either a bare array of records or an object with a
// "validators" array.
func DecodeSnapshot(data []byte) ([]models.SnapshotRecord, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []models.SnapshotRecord{}, nil
	}

	if data[0] == '[' {
		var records []models.SnapshotRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("decode snapshot array: %w", err)
		}
		return records, nil
	}

	var wrapped struct {
		Validators []models.SnapshotRecord `json:"validators"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("decode snapshot object: %w", err)
	}
	if wrapped.Validators == nil {
		return []models.SnapshotRecord{}, nil
	}
	return wrapped.Validators, nil
}

func ReadSnapshot(path string) ([]models.SnapshotRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	return DecodeSnapshot(data)
}

// LoadSnapshot never fails: a missing or malformed file yields an empty list.
func LoadSnapshot(path string) []models.SnapshotRecord {
	records, err := ReadSnapshot(path)
	if err != nil {
		log.Printf("⚠️  Snapshot unavailable, using empty validator list: %v", err)
		return []models.SnapshotRecord{}
	}
	return records
}
