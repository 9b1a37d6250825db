package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tbraun/spielplan/internal/ingest"
	"github.com/tbraun/spielplan/internal/snapshot"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

func parseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case FormatText, FormatJSON:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
}

// writeSummary prints a run summary
func writeSummary(w io.Writer, summary *ingest.Summary, format OutputFormat) error {
	if format == FormatJSON {
		return writeIndented(w, summary)
	}

	fmt.Fprintf(w, "Scraped %d fixtures across %d dates at %s\n",
		summary.Fixtures, summary.Dates, summary.ScrapedAt)
	if summary.New > 0 {
		fmt.Fprintf(w, "New fixtures: %d\n", summary.New)
	}
	if summary.Warnings > 0 {
		fmt.Fprintf(w, "Parse warnings: %d\n", summary.Warnings)
	}
	if summary.Unidentified > 0 {
		fmt.Fprintf(w, "Unidentified fixtures: %d\n", summary.Unidentified)
	}
	return nil
}

// writeSnapshot prints the persisted snapshot
func writeSnapshot(w io.Writer, snap *snapshot.Snapshot, format OutputFormat) error {
	if format == FormatJSON {
		return writeIndented(w, snap)
	}

	fmt.Fprintf(w, "%s (%s, scraped %s)\n", snap.Club.Name, snap.URL, snap.ScrapedAt)
	for _, date := range snap.Matches.Dates() {
		fmt.Fprintf(w, "\n%s\n", date)
		for _, f := range snap.Matches.On(date) {
			marker := "?"
			switch f.Venue {
			case "home":
				marker = "H"
			case "away":
				marker = "A"
			}
			kickoff := f.Kickoff
			if kickoff == "" {
				kickoff = "--:--"
			}
			fmt.Fprintf(w, "  %s  (%s)  %s – %s", kickoff, marker, f.Team.Name, f.Opponent.Name)
			if f.Competition != "" {
				fmt.Fprintf(w, "  [%s]", f.Competition)
			}
			fmt.Fprintln(w)
		}
	}
	return nil
}

func writeIndented(w io.Writer, payload interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
