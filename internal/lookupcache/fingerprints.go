package lookupcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"subseek/internal/fingerprint"
)

// LookupFingerprint returns the cached fingerprint for path when the recorded
// size and modification time still match.
func (s *Store) LookupFingerprint(ctx context.Context, path string, size int64, modTime time.Time) (fingerprint.Fingerprint, bool, error) {
	ctx = ensureContext(ctx)
	key, err := filepath.Abs(path)
	if err != nil {
		return fingerprint.Fingerprint{}, false, fmt.Errorf("resolve path: %w", err)
	}

	var (
		storedSize    int64
		storedModTime int64
		digest        string
	)
	err = retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx,
			"SELECT size, mod_time_ns, digest FROM fingerprints WHERE path = ?", key,
		).Scan(&storedSize, &storedModTime, &digest)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return fingerprint.Fingerprint{}, false, nil
	}
	if err != nil {
		return fingerprint.Fingerprint{}, false, fmt.Errorf("lookup fingerprint: %w", err)
	}
	if storedSize != size || storedModTime != modTime.UnixNano() {
		return fingerprint.Fingerprint{}, false, nil
	}

	fp := fingerprint.Fingerprint{Size: uint64(storedSize), Digest: digest}
	if !fp.Valid() {
		return fingerprint.Fingerprint{}, false, nil
	}
	return fp, true, nil
}

// StoreFingerprint records fp for path, replacing any previous entry.
func (s *Store) StoreFingerprint(ctx context.Context, path string, modTime time.Time, fp fingerprint.Fingerprint) error {
	if !fp.Valid() {
		return fmt.Errorf("store fingerprint: invalid fingerprint %q", fp.String())
	}
	key, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	_, err = s.execWithRetry(ctx,
		`INSERT INTO fingerprints (path, size, mod_time_ns, digest, computed_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
		   size = excluded.size,
		   mod_time_ns = excluded.mod_time_ns,
		   digest = excluded.digest,
		   computed_at = excluded.computed_at`,
		key, int64(fp.Size), modTime.UnixNano(), fp.Digest, s.now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("store fingerprint: %w", err)
	}
	return nil
}
