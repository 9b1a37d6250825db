package scheduler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/tbraun/spielplan/internal/fetch"
	"github.com/tbraun/spielplan/internal/ingest"
	"github.com/tbraun/spielplan/internal/snapshot"
)

func TestNewRejectsBadSpec(t *testing.T) {
	if _, err := New(nil, "not a cron spec", 0); err == nil {
		t.Error("invalid cron spec should be rejected")
	}
	if _, err := New(nil, "0 6 * * *", 0); err != nil {
		t.Errorf("valid cron spec rejected: %v", err)
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{&fetch.Error{Kind: fetch.KindTransport}, true},
		{&fetch.Error{Kind: fetch.KindTimeout}, true},
		{&fetch.Error{Kind: fetch.KindStatus, StatusCode: 404}, false},
		{ingest.ErrEmptyListing, false},
		{&snapshot.WriteError{Path: "x", Err: errors.New("disk full")}, false},
		{errors.New("something else"), false},
	}

	for _, tt := range tests {
		if got := retryable(tt.err); got != tt.want {
			t.Errorf("retryable(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}

	// wrapped fetch errors still classify
	wrapped := fmt.Errorf("run failed: %w", &fetch.Error{Kind: fetch.KindTimeout})
	if !retryable(wrapped) {
		t.Error("wrapped timeout should be retryable")
	}
}
