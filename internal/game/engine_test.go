package game

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sketchparty/internal/words"
)

type recordedEvent struct {
	conn    string
	event   string
	payload any
}

// recordingSender captures everything the engine emits. Safe for
// concurrent use: timer goroutines send from their own goroutines.
type recordingSender struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (s *recordingSender) Send(connID, event string, payload any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, recordedEvent{conn: connID, event: event, payload: payload})
}

func (s *recordingSender) count(event string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.events {
		if e.event == event {
			n++
		}
	}
	return n
}

func (s *recordingSender) byEvent(event string) []recordedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []recordedEvent
	for _, e := range s.events {
		if e.event == event {
			out = append(out, e)
		}
	}
	return out
}

func (s *recordingSender) forConn(connID, event string) []recordedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []recordedEvent
	for _, e := range s.events {
		if e.conn == connID && e.event == event {
			out = append(out, e)
		}
	}
	return out
}

func testConfig() Config {
	return Config{
		RoundDuration:   200 * time.Millisecond,
		TickInterval:    50 * time.Millisecond,
		FirstRoundDelay: 5 * time.Millisecond,
		NextRoundDelay:  5 * time.Millisecond,
		CheatCheckEvery: 60 * time.Millisecond,
		GuessReward:     20,
		TimeoutPenalty:  10,
		CheatPenalty:    10,
	}
}

func newTestEngine(t *testing.T, cfg Config) (*Engine, *Registry, *recordingSender, *fakeClassifier) {
	t.Helper()
	reg := NewRegistry()
	sender := &recordingSender{}
	cls := &fakeClassifier{verdict: VerdictDrawing}
	e := NewEngine(reg, sender, words.NewPool("apple"), cls, cfg, zerolog.Nop())
	return e, reg, sender, cls
}

// setupLobby creates a room with the given players joined, game not yet
// started. The first player is the creator.
func setupLobby(t *testing.T, e *Engine, roomID string, players ...string) {
	t.Helper()
	e.CreateRoom(players[0], roomID, "user-"+players[0])
	for _, p := range players[1:] {
		e.JoinRoom(p, roomID, "user-"+p)
	}
}

func waitFor(t *testing.T, s *recordingSender, event string, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return s.count(event) >= n },
		2*time.Second, 2*time.Millisecond, "expected %d %q events", n, event)
}

func TestStartGamePreconditions(t *testing.T) {
	e, _, sender, _ := newTestEngine(t, testConfig())

	e.StartGame("nope", "c1")
	require.Len(t, sender.forConn("c1", EventError), 1, "missing room is an error")

	setupLobby(t, e, "room1", "c1")
	e.StartGame("room1", "c1")
	require.Len(t, sender.forConn("c1", EventError), 2, "one player is not enough")

	e.JoinRoom("c2", "room1", "user-c2")
	e.StartGame("room1", "c1")
	waitFor(t, sender, EventGameStarted, 1)

	e.StartGame("room1", "c1")
	require.Len(t, sender.forConn("c1", EventError), 3, "starting twice is an error")
	assert.Equal(t, 1, sender.count(EventGameStarted))
}

func TestStartGameFreezesRosterAndScores(t *testing.T) {
	e, reg, sender, _ := newTestEngine(t, testConfig())
	setupLobby(t, e, "room1", "c1", "c2")

	e.StartGame("room1", "c1")

	started := sender.byEvent(EventGameStarted)
	require.Len(t, started, 2, "broadcast to both members")
	payload := started[0].payload.(GameStarted)
	assert.Equal(t, 2, payload.TotalRounds)
	assert.Equal(t, []string{"user-c1", "user-c2"}, payload.Players)

	r, ok := reg.Get("room1")
	require.True(t, ok)
	r.mu.Lock()
	assert.Equal(t, []string{"c1", "c2"}, r.playerOrder)
	assert.Equal(t, 0, r.scores.Get("c1"))
	assert.Equal(t, 0, r.scores.Get("c2"))
	assert.True(t, r.gameActive)
	r.mu.Unlock()
}

func TestRoundStartNotifiesDrawerPrivately(t *testing.T) {
	e, reg, sender, _ := newTestEngine(t, testConfig())
	setupLobby(t, e, "room1", "c1", "c2")
	e.StartGame("room1", "c1")

	waitFor(t, sender, EventRoundStarted, 2)

	turns := sender.byEvent(EventYourTurn)
	require.Len(t, turns, 1, "only the drawer learns the word")
	assert.Equal(t, "c1", turns[0].conn)
	assert.Equal(t, "apple", turns[0].payload.(YourTurn).Word)

	started := sender.byEvent(EventRoundStarted)[0].payload.(RoundStarted)
	assert.Equal(t, "user-c1", started.Drawer)
	assert.Equal(t, 0, started.RoundNumber)

	r, _ := reg.Get("room1")
	r.mu.Lock()
	assert.True(t, r.roundActive)
	assert.Equal(t, "c1", r.drawer)
	r.mu.Unlock()
}

func TestGuessMatchingIsCaseAndWhitespaceInsensitive(t *testing.T) {
	e, _, sender, _ := newTestEngine(t, testConfig())
	setupLobby(t, e, "room1", "c1", "c2")
	e.StartGame("room1", "c1")
	waitFor(t, sender, EventRoundStarted, 1)

	e.SubmitGuess("room1", "c2", " Apple ")

	require.Equal(t, 2, sender.count(EventCorrectGuess), "broadcast to both members")
	guess := sender.byEvent(EventCorrectGuess)[0].payload.(CorrectGuess)
	assert.Equal(t, "user-c2", guess.Player)

	ended := sender.byEvent(EventRoundEnded)
	require.NotEmpty(t, ended)
	payload := ended[0].payload.(RoundEnded)
	assert.Equal(t, ReasonCorrect, payload.Reason)
	assert.Equal(t, "user-c2", payload.Winner)
	assert.Equal(t, "apple", payload.Word)
	assert.Contains(t, payload.Scores, ScoreEntry{Player: "user-c2", Score: 20})
}

func TestWrongGuessGetsPrivateFeedback(t *testing.T) {
	e, _, sender, _ := newTestEngine(t, testConfig())
	setupLobby(t, e, "room1", "c1", "c2")
	e.StartGame("room1", "c1")
	waitFor(t, sender, EventRoundStarted, 1)

	e.SubmitGuess("room1", "c2", "banana")

	feedback := sender.forConn("c2", EventGuessFeedback)
	require.Len(t, feedback, 1)
	assert.False(t, feedback[0].payload.(GuessFeedback).Correct)
	assert.False(t, feedback[0].payload.(GuessFeedback).Close)
	assert.Zero(t, sender.count(EventRoundEnded), "wrong guess does not end the round")

	// One edit away from the secret word: flagged as close.
	e.SubmitGuess("room1", "c2", "appl")
	feedback = sender.forConn("c2", EventGuessFeedback)
	require.Len(t, feedback, 2)
	assert.True(t, feedback[1].payload.(GuessFeedback).Close)
}

func TestNonMemberCannotGuess(t *testing.T) {
	e, reg, sender, _ := newTestEngine(t, testConfig())
	setupLobby(t, e, "room1", "c1", "c2")
	e.StartGame("room1", "c1")
	waitFor(t, sender, EventRoundStarted, 1)

	e.SubmitGuess("room1", "outsider", "apple")

	require.Len(t, sender.forConn("outsider", EventError), 1)
	assert.Zero(t, sender.count(EventCorrectGuess))

	r, _ := reg.Get("room1")
	r.mu.Lock()
	boardSize := r.scores.Len()
	r.mu.Unlock()
	assert.Equal(t, 2, boardSize, "outsiders never reach the scoreboard")
}

func TestDrawerCannotGuess(t *testing.T) {
	e, _, sender, _ := newTestEngine(t, testConfig())
	setupLobby(t, e, "room1", "c1", "c2")
	e.StartGame("room1", "c1")
	waitFor(t, sender, EventRoundStarted, 1)

	e.SubmitGuess("room1", "c1", "apple")

	require.Len(t, sender.forConn("c1", EventError), 1)
	assert.Zero(t, sender.count(EventCorrectGuess))
}

func TestGuessOutsideRoundIsNoOp(t *testing.T) {
	e, _, sender, _ := newTestEngine(t, testConfig())
	setupLobby(t, e, "room1", "c1", "c2")

	e.SubmitGuess("room1", "c2", "apple")

	assert.Zero(t, sender.count(EventCorrectGuess))
	assert.Zero(t, sender.count(EventGuessFeedback))
	assert.Empty(t, sender.forConn("c2", EventError))
}

func TestEndRoundIsIdempotent(t *testing.T) {
	e, reg, sender, _ := newTestEngine(t, testConfig())
	setupLobby(t, e, "room1", "c1", "c2")
	e.StartGame("room1", "c1")
	waitFor(t, sender, EventRoundStarted, 1)

	r, ok := reg.Get("room1")
	require.True(t, ok)

	// A timeout and a correct guess landing back to back: only the first
	// transition may produce a round-ended broadcast.
	r.mu.Lock()
	e.endRoundLocked(r, ReasonTimeout, "")
	e.endRoundLocked(r, ReasonCorrect, "c2")
	r.mu.Unlock()

	assert.Equal(t, 2, sender.count(EventRoundEnded), "one broadcast per member, once")
	assert.Equal(t, ReasonTimeout, sender.byEvent(EventRoundEnded)[0].payload.(RoundEnded).Reason)
}

func TestTimeoutPenaltyFlooredAtZero(t *testing.T) {
	e, reg, sender, _ := newTestEngine(t, testConfig())
	setupLobby(t, e, "room1", "c1", "c2")
	e.StartGame("room1", "c1")
	waitFor(t, sender, EventRoundStarted, 1)

	r, _ := reg.Get("room1")
	r.mu.Lock()
	r.scores.Add("c1", 5)
	e.endRoundLocked(r, ReasonTimeout, "")
	score := r.scores.Get("c1")
	r.mu.Unlock()

	assert.Equal(t, 0, score, "max(0, 5-10)")
}

func TestTimerTicksDownAndExpires(t *testing.T) {
	e, _, sender, _ := newTestEngine(t, testConfig())
	setupLobby(t, e, "room1", "c1", "c2")
	e.StartGame("room1", "c1")

	waitFor(t, sender, EventRoundEnded, 1)

	assert.GreaterOrEqual(t, sender.count(EventTimerUpdate), 2, "ticks before expiry")
	ended := sender.byEvent(EventRoundEnded)[0].payload.(RoundEnded)
	assert.Equal(t, ReasonTimeout, ended.Reason)
}

func TestDrawerRotationSkipsDepartedPlayers(t *testing.T) {
	e, reg, _, _ := newTestEngine(t, testConfig())

	r := newRoom("room1")
	for _, id := range []string{"A", "B", "C"} {
		r.addMember(id, "user-"+id)
	}
	require.NoError(t, reg.Put(r))

	r.mu.Lock()
	r.playerOrder = []string{"A", "B", "C"}
	r.totalRounds = 3
	r.scores.Reset(r.playerOrder)
	r.gameActive = true
	r.removeMember("B") // B disconnected before the first round
	e.startRoundLocked(r)
	drawer0, idx0 := r.drawer, r.roundIndex
	e.endRoundLocked(r, ReasonTimeout, "")
	e.startRoundLocked(r)
	drawer1, idx1 := r.drawer, r.roundIndex
	r.mu.Unlock()

	assert.Equal(t, "A", drawer0)
	assert.Equal(t, 0, idx0)
	assert.Equal(t, "C", drawer1, "B is skipped permanently")
	assert.Equal(t, 2, idx1, "skipping B advanced the round index")
}

func TestRotationExhaustedEndsGame(t *testing.T) {
	e, reg, sender, _ := newTestEngine(t, testConfig())

	// Everyone from the frozen order is gone; the two present members
	// never had a rotation slot.
	r := newRoom("room1")
	r.addMember("D", "user-D")
	r.addMember("E", "user-E")
	require.NoError(t, reg.Put(r))

	r.mu.Lock()
	r.playerOrder = []string{"A", "B"}
	r.totalRounds = 2
	r.scores.Reset(r.playerOrder)
	r.gameActive = true
	e.startRoundLocked(r)
	r.mu.Unlock()

	ended := sender.byEvent(EventGameEnded)
	require.NotEmpty(t, ended)
	assert.Equal(t, ReasonNoPlayersLeft, ended[0].payload.(GameEnded).Reason)
	assert.Zero(t, reg.Len(), "room torn down")
}

func TestFullGameTwoPlayers(t *testing.T) {
	e, reg, sender, _ := newTestEngine(t, testConfig())
	setupLobby(t, e, "room1", "c1", "c2")
	e.StartGame("room1", "c1")

	// Round 1: c1 draws, c2 guesses.
	waitFor(t, sender, EventRoundStarted, 1)
	e.SubmitGuess("room1", "c2", "apple")

	// Round 2: c2 draws, c1 guesses.
	waitFor(t, sender, EventRoundStarted, 4)
	e.SubmitGuess("room1", "c1", "apple")

	waitFor(t, sender, EventGameEnded, 2)
	require.Eventually(t, func() bool { return reg.Len() == 0 },
		time.Second, 2*time.Millisecond, "room removed from registry")

	ends := sender.byEvent(EventGameEnded)
	require.Len(t, ends, 2, "exactly one game-ended broadcast per member")
	payload := ends[0].payload.(GameEnded)
	assert.Equal(t, ReasonFinished, payload.Reason)
	assert.Equal(t, "user-c1", payload.Winner, "20-20 tie goes to the first-seen player")

	_, ok := reg.Get("room1")
	assert.False(t, ok)
}

func TestStrokeRelayGating(t *testing.T) {
	e, _, sender, _ := newTestEngine(t, testConfig())
	setupLobby(t, e, "room1", "c1", "c2", "c3")

	stroke := []byte(`{"x":1,"y":2}`)

	// No round running: dropped.
	e.RelayStroke("room1", "c1", stroke)
	assert.Zero(t, sender.count(EventDrawing))

	e.StartGame("room1", "c1")
	waitFor(t, sender, EventRoundStarted, 1)

	// Non-drawer: dropped.
	e.RelayStroke("room1", "c2", stroke)
	assert.Zero(t, sender.count(EventDrawing))

	// Drawer: relayed to the two others only.
	e.RelayStroke("room1", "c1", stroke)
	assert.Equal(t, 2, sender.count(EventDrawing))
	assert.Empty(t, sender.forConn("c1", EventDrawing))
}

func TestStaleScheduledRoundStartIsNoOp(t *testing.T) {
	cfg := testConfig()
	cfg.NextRoundDelay = 50 * time.Millisecond
	e, reg, sender, _ := newTestEngine(t, cfg)
	setupLobby(t, e, "room1", "c1", "c2")
	e.StartGame("room1", "c1")
	waitFor(t, sender, EventRoundStarted, 1)

	// End round 1; a delayed start for round 2 is now pending. The game
	// ends before it fires, so it must never run.
	r, _ := reg.Get("room1")
	r.mu.Lock()
	e.endRoundLocked(r, ReasonTimeout, "")
	e.endGameLocked(r, ReasonNotEnoughPlayers)
	r.mu.Unlock()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 2, sender.count(EventRoundStarted), "no round after game end")
}
