package game

// Scoreboard keeps per-player points in explicit insertion order. Broadcast
// order and the winner tie-break both depend on that order, so it is kept as
// a slice rather than relying on map iteration.
type Scoreboard struct {
	order  []string
	points map[string]int
}

func NewScoreboard() *Scoreboard {
	return &Scoreboard{points: make(map[string]int)}
}

// Reset replaces the whole board with the given players, all at zero.
func (s *Scoreboard) Reset(ids []string) {
	s.order = make([]string, 0, len(ids))
	s.points = make(map[string]int, len(ids))
	for _, id := range ids {
		s.Track(id)
	}
}

// Track registers a player at zero points if not already present.
func (s *Scoreboard) Track(id string) {
	if _, ok := s.points[id]; ok {
		return
	}
	s.order = append(s.order, id)
	s.points[id] = 0
}

// Add awards delta points, registering the player if needed.
func (s *Scoreboard) Add(id string, delta int) {
	s.Track(id)
	s.points[id] += delta
}

// Penalize subtracts amount from the player's score, floored at zero.
// Scores never go negative: that is a product decision, not an accident.
func (s *Scoreboard) Penalize(id string, amount int) {
	s.Track(id)
	if v := s.points[id] - amount; v > 0 {
		s.points[id] = v
	} else {
		s.points[id] = 0
	}
}

func (s *Scoreboard) Get(id string) int {
	return s.points[id]
}

// Remove drops a player from the board entirely.
func (s *Scoreboard) Remove(id string) {
	if _, ok := s.points[id]; !ok {
		return
	}
	delete(s.points, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Leader returns the player with the strictly highest score. Ties go to
// whoever was registered first. ok is false for an empty board.
func (s *Scoreboard) Leader() (id string, ok bool) {
	best := 0
	for _, p := range s.order {
		if !ok || s.points[p] > best {
			id, best, ok = p, s.points[p], true
		}
	}
	return id, ok
}

// Entries snapshots the board in insertion order, resolving ids through
// the given name lookup.
func (s *Scoreboard) Entries(name func(id string) string) []ScoreEntry {
	out := make([]ScoreEntry, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, ScoreEntry{Player: name(id), Score: s.points[id]})
	}
	return out
}

func (s *Scoreboard) Len() int {
	return len(s.order)
}
