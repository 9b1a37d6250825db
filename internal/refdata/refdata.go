// Package refdata loads the static reference files shipped alongside the
// service: the club roster (name and logo per club) and the venue directory
// (name, address and map link per venue). Both are read-only lookup tables
// for downstream consumers; the ingestion pipeline works without them.
package refdata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ClubEntry is one club in the roster
type ClubEntry struct {
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

// VenueEntry is one venue in the directory. Adresse is nil for venues
// without a published address.
type VenueEntry struct {
	Name    string  `json:"name"`
	Adresse *string `json:"adresse"`
	MapLink string  `json:"mapLink,omitempty"`
}

// Data holds both reference tables
type Data struct {
	Clubs  []ClubEntry
	Venues []VenueEntry
}

// Load reads clubs.json and venues.json from dir. A missing file yields an
// empty table rather than an error; a malformed file is an error.
func Load(dir string) (*Data, error) {
	data := &Data{}

	if err := loadJSON(filepath.Join(dir, "clubs.json"), &data.Clubs); err != nil {
		return nil, err
	}
	if err := loadJSON(filepath.Join(dir, "venues.json"), &data.Venues); err != nil {
		return nil, err
	}

	return data, nil
}

func loadJSON(path string, target interface{}) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// ClubByName looks up a club case-insensitively
func (d *Data) ClubByName(name string) (ClubEntry, bool) {
	for _, c := range d.Clubs {
		if strings.EqualFold(strings.TrimSpace(c.Name), strings.TrimSpace(name)) {
			return c, true
		}
	}
	return ClubEntry{}, false
}

// VenueByName looks up a venue case-insensitively
func (d *Data) VenueByName(name string) (VenueEntry, bool) {
	for _, v := range d.Venues {
		if strings.EqualFold(strings.TrimSpace(v.Name), strings.TrimSpace(name)) {
			return v, true
		}
	}
	return VenueEntry{}, false
}
