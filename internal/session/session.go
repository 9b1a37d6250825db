// Package session implements the cookie sessions that gate the scrape
// trigger. Tokens are random, stored server-side in a bbolt database with an
// expiry, and handed to the browser in an HttpOnly cookie.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/tbraun/spielplan/internal/logger"
)

const (
	// CookieName is the session cookie handed out on login
	CookieName = "spielplan_session"

	bucketName = "sessions"
	tokenSize  = 32
)

// record is what gets stored per token
type record struct {
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store persists sessions in a bbolt database
type Store struct {
	db  *bbolt.DB
	ttl time.Duration
}

// NewStore opens (or creates) the session database at dbPath
func NewStore(dbPath string, ttl time.Duration) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating session directory %s: %w", dir, err)
	}

	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening session database at %s: %w", dbPath, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating session bucket: %w", err)
	}

	return &Store{db: db, ttl: ttl}, nil
}

// Create issues a new session token
func (s *Store) Create() (string, error) {
	raw := make([]byte, tokenSize)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}
	token := hex.EncodeToString(raw)

	now := time.Now().UTC()
	rec := record{CreatedAt: now, ExpiresAt: now.Add(s.ttl)}
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encoding session: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(token), data)
	})
	if err != nil {
		return "", fmt.Errorf("storing session: %w", err)
	}

	return token, nil
}

// Validate reports whether the token belongs to a live session. Expired
// sessions are deleted on sight.
func (s *Store) Validate(token string) bool {
	if token == "" {
		return false
	}

	var rec record
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketName)).Get([]byte(token))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &rec)
	})
	if err != nil || !found {
		return false
	}

	if time.Now().UTC().After(rec.ExpiresAt) {
		if err := s.Delete(token); err != nil {
			logger.Error("deleting expired session failed", nil, err)
		}
		return false
	}

	return true
}

// Delete removes a session token
func (s *Store) Delete(token string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Delete([]byte(token))
	})
}

// Close closes the underlying database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Require wraps a handler and rejects requests without a live session cookie
func (s *Store) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(CookieName)
		if err != nil || !s.Validate(cookie.Value) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{
				"error": "authentication required",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
