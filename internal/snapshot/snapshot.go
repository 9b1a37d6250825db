// Package snapshot persists the result of a scrape run: the date-grouped
// fixtures plus club metadata, written to a single JSON file.
//
// The file is replaced wholesale on every successful run via
// write-to-temp-then-rename, so concurrent readers always see either the old
// snapshot or the new one in full, never a mix. There is no incremental merge
// and no history beyond the latest snapshot.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tbraun/spielplan/internal/fixture"
)

// ErrNotGenerated is returned by Load when no run has ever completed
var ErrNotGenerated = errors.New("snapshot not yet generated")

// Club describes the club the snapshot belongs to
type Club struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Logo        string `json:"logo,omitempty"`
}

// Snapshot is the complete date-grouped set of fixtures plus metadata,
// persisted after a successful run.
type Snapshot struct {
	Club      Club             `json:"club"`
	URL       string           `json:"url"`
	ScrapedAt string           `json:"scrapedAt"`
	Matches   *fixture.Matches `json:"matches"`
}

// New creates a snapshot stamped with the given scrape time
func New(club Club, url string, scrapedAt time.Time, matches *fixture.Matches) *Snapshot {
	if matches == nil {
		matches = fixture.NewMatches()
	}
	return &Snapshot{
		Club:      club,
		URL:       url,
		ScrapedAt: scrapedAt.UTC().Format(time.RFC3339),
		Matches:   matches,
	}
}

// WriteError is a failed serialization or atomic replace. The previous
// snapshot file is untouched when it occurs.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing snapshot %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Store owns the snapshot file. At most one writer replaces it at a time;
// readers need no coordination because the replace is atomic at the
// filesystem layer.
type Store struct {
	path string
}

// NewStore creates a Store for the given snapshot file path, creating the
// parent directory if needed. A leading "~/" is expanded to the home
// directory.
func NewStore(path string) (*Store, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating snapshot directory: %w", err)
	}

	return &Store{path: path}, nil
}

// Path returns the snapshot file path
func (s *Store) Path() string {
	return s.path
}

// Load reads the latest snapshot from disk. Returns ErrNotGenerated when no
// run has ever completed.
func (s *Store) Load() (*Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotGenerated
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if snap.Matches == nil {
		snap.Matches = fixture.NewMatches()
	}

	return &snap, nil
}

// Write atomically replaces the persisted snapshot. The new content is
// written to a temp file in the same directory and renamed over the old file,
// so a failure at any point leaves the previous snapshot intact.
func (s *Store) Write(snap *Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return &WriteError{Path: s.path, Err: fmt.Errorf("encoding snapshot: %w", err)}
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".snapshot-*.json")
	if err != nil {
		return &WriteError{Path: s.path, Err: fmt.Errorf("creating temp file: %w", err)}
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &WriteError{Path: s.path, Err: fmt.Errorf("writing temp file: %w", err)}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &WriteError{Path: s.path, Err: fmt.Errorf("closing temp file: %w", err)}
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return &WriteError{Path: s.path, Err: fmt.Errorf("chmod temp file: %w", err)}
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return &WriteError{Path: s.path, Err: fmt.Errorf("replacing snapshot: %w", err)}
	}

	return nil
}
