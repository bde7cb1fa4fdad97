// Package export writes batch output snapshots to disk.
package export

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"

	"github.com/PetruGlt/StatesOfTheWorld/internal/scrape"
)

// WriteJSON writes the record sequence to path as indented JSON.
func WriteJSON(path string, records []scrape.CountryRecord) error {
	data, err := sonic.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// ReadJSON loads a snapshot written by WriteJSON.
func ReadJSON(path string) ([]scrape.CountryRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var records []scrape.CountryRecord
	if err := sonic.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return records, nil
}
