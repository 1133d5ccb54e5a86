// Package repo owns the collaborator-visible servers.json file: an
// array of record.ServerRecord, UTF-8, pretty-printed (spec.md §6). A
// missing file is treated as an empty fleet, not a fatal error.
package repo

import (
	"encoding/json"
	"os"

	"emperror.dev/errors"

	"github.com/mcobservatory/observatory/internal/record"
)

// Load reads servers.json at path into a fleet of ServerRecords. A
// missing file yields an empty, non-nil slice.
func Load(path string) ([]*record.ServerRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []*record.ServerRecord{}, nil
		}
		return nil, errors.Wrap(err, "read servers.json")
	}

	var entries []*record.ServerRecord
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrap(err, "parse servers.json")
	}
	if entries == nil {
		entries = []*record.ServerRecord{}
	}
	for i, e := range entries {
		entries[i] = record.NewServerRecord(e.Name, e.IP, e.Port, e.Kind, e.Note)
	}
	return entries, nil
}

// Save writes the fleet to path, pretty-printed, matching the
// collaborator-visible format spec.md §6 describes.
func Save(path string, fleet []*record.ServerRecord) error {
	data, err := json.MarshalIndent(fleet, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode servers.json")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "write servers.json")
	}
	return nil
}
