package game

import (
	"sync"

	"golang.org/x/time/rate"
)

// Room is one game lobby/session. All fields behind mu; every operation on
// a room locks it for the duration of the state transition, so per-room
// behavior is linearizable while distinct rooms stay fully independent.
type Room struct {
	id string

	mu      sync.Mutex
	members []string          // insertion ordered connection ids
	names   map[string]string // connID -> display name
	scores  *Scoreboard

	// Frozen at game start; drawer rotation walks this and never picks up
	// players who join mid-game.
	playerOrder []string

	drawer      string
	secretWord  string
	roundActive bool
	gameActive  bool
	roundIndex  int
	totalRounds int
	remainingMs int64

	timer *roundTimer

	// gen is bumped on every start/end transition. Timer ticks and delayed
	// continuations capture it and re-check under mu, so anything armed for
	// a superseded state is a provable no-op.
	gen uint64

	// One accepted cheat probe per throttle window; re-created each round.
	cheatLimiter *rate.Limiter
}

func newRoom(id string) *Room {
	return &Room{
		id:     id,
		names:  make(map[string]string),
		scores: NewScoreboard(),
	}
}

func (r *Room) ID() string { return r.id }

func (r *Room) isMember(connID string) bool {
	for _, m := range r.members {
		if m == connID {
			return true
		}
	}
	return false
}

func (r *Room) addMember(connID, username string) {
	r.members = append(r.members, connID)
	r.names[connID] = username
	r.scores.Track(connID)
}

func (r *Room) removeMember(connID string) {
	for i, m := range r.members {
		if m == connID {
			r.members = append(r.members[:i], r.members[i+1:]...)
			break
		}
	}
	delete(r.names, connID)
	r.scores.Remove(connID)
}

func (r *Room) nameOf(connID string) string {
	return r.names[connID]
}

// nextDrawer scans playerOrder from roundIndex for the first entry still
// present in the room. Entries that already left advance roundIndex as a
// side effect, so they stay skipped for the rest of the game.
func (r *Room) nextDrawer() (string, bool) {
	for i := r.roundIndex; i < len(r.playerOrder); i++ {
		if id := r.playerOrder[i]; r.isMember(id) {
			return id, true
		}
		r.roundIndex++
	}
	return "", false
}

// cancelTimer tears down the armed countdown, if any. Safe to call twice.
func (r *Room) cancelTimer() {
	if r.timer != nil {
		r.timer.cancel()
		r.timer = nil
	}
}

// RoomSummary is the REST-facing view of a room.
type RoomSummary struct {
	RoomID     string       `json:"roomId"`
	Players    []ScoreEntry `json:"players"`
	GameActive bool         `json:"gameActive"`
}

func (r *Room) Summary() RoomSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RoomSummary{
		RoomID:     r.id,
		Players:    r.scoreEntries(),
		GameActive: r.gameActive,
	}
}

// scoreEntries snapshots the scoreboard with display names resolved.
// Players who left mid-game keep no entry (membership cleanup removes
// their scoring bookkeeping).
func (r *Room) scoreEntries() []ScoreEntry {
	return r.scores.Entries(r.nameOf)
}
