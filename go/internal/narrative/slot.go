package narrative

import "sync"

// Ticket identifies one generation request. Results are accepted only while the ticket is current.
type Ticket struct {
	Key        string
	Generation uint64
}

// Slot is a display-only text holder guarded against late results.
// Begin invalidates every earlier ticket, including ones for the same key.
type Slot struct {
	mu         sync.Mutex
	current    Ticket
	text       string
	pending    bool
	generation uint64
}

// Begin starts a new request for key and clears any shown text
func (s *Slot) Begin(key string) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.current = Ticket{Key: key, Generation: s.generation}
	s.text = ""
	s.pending = true
	return s.current
}

// Deliver stores text if t is still current and reports whether it was kept
func (s *Slot) Deliver(t Ticket, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t != s.current || !s.pending {
		return false
	}
	s.text = text
	s.pending = false
	return true
}

// Reset drops the current ticket so any in-flight result is discarded
func (s *Slot) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.current = Ticket{}
	s.text = ""
	s.pending = false
}

// Text returns the stored text and whether a request is still outstanding
func (s *Slot) Text() (text string, pending bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text, s.pending
}
