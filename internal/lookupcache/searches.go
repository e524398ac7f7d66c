package lookupcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"subseek/internal/fingerprint"
)

// SearchEntry is a cached catalog answer for one fingerprint. A nil Matches
// slice records a search that found nothing.
type SearchEntry struct {
	Matches    []map[string]any
	SearchedAt time.Time
}

// LookupSearch returns the cached search for fp when it is younger than ttl.
// A ttl of zero disables search caching.
func (s *Store) LookupSearch(ctx context.Context, fp fingerprint.Fingerprint, ttl time.Duration) (SearchEntry, bool, error) {
	if ttl <= 0 {
		return SearchEntry{}, false, nil
	}
	ctx = ensureContext(ctx)

	var (
		payload    string
		searchedAt int64
	)
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx,
			"SELECT matches_json, searched_at FROM searches WHERE digest = ? AND size = ?",
			fp.Digest, int64(fp.Size),
		).Scan(&payload, &searchedAt)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return SearchEntry{}, false, nil
	}
	if err != nil {
		return SearchEntry{}, false, fmt.Errorf("lookup search: %w", err)
	}

	entry := SearchEntry{SearchedAt: time.Unix(0, searchedAt)}
	if s.now().Sub(entry.SearchedAt) > ttl {
		return SearchEntry{}, false, nil
	}
	matches, err := decodeMatches([]byte(payload))
	if err != nil {
		return SearchEntry{}, false, fmt.Errorf("decode cached search: %w", err)
	}
	entry.Matches = matches
	return entry, true, nil
}

// StoreSearch records matches as the latest answer for fp.
func (s *Store) StoreSearch(ctx context.Context, fp fingerprint.Fingerprint, matches []map[string]any) error {
	if !fp.Valid() {
		return fmt.Errorf("store search: invalid fingerprint %q", fp.String())
	}
	payload, err := encodeMatches(matches)
	if err != nil {
		return fmt.Errorf("encode search: %w", err)
	}
	_, err = s.execWithRetry(ctx,
		`INSERT INTO searches (digest, size, matches_json, searched_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(digest, size) DO UPDATE SET
		   matches_json = excluded.matches_json,
		   searched_at = excluded.searched_at`,
		fp.Digest, int64(fp.Size), string(payload), s.now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("store search: %w", err)
	}
	return nil
}
