package lookupcache

import "time"

// SetNow overrides the store clock.
func (s *Store) SetNow(now func() time.Time) {
	s.now = now
}
