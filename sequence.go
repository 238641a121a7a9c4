package xbeeapi

// Sequence hands out frame IDs from 1 to 255, wrapping around. Zero is
// never returned since it asks the radio not to respond. Sequence is not
// safe for concurrent use; the radio guards it with its own lock.
type Sequence struct {
	last byte
}

// Next returns the ID following the last one returned, skipping any for
// which inUse reports true. It returns false when every ID is in use.
func (s *Sequence) Next(inUse func(id byte) bool) (byte, bool) {
	id := s.last

	for i := 0; i < 255; i++ {
		id++

		// Zero is skipped.
		if id == 0 {
			id = 1
		}

		if inUse != nil && inUse(id) {
			continue
		}

		s.last = id

		return id, true
	}

	return 0, false
}
