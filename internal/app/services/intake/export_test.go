package intake

import "time"

// SetClock replaces the submission timestamp source.
func (s *Service) SetClock(now func() time.Time) { s.now = now }
