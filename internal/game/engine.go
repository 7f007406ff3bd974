package game

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"sketchparty/internal/words"
)

// Config carries the engine's tunables. Tests shrink the durations so a
// whole game fits in milliseconds.
type Config struct {
	RoundDuration   time.Duration
	TickInterval    time.Duration
	FirstRoundDelay time.Duration
	NextRoundDelay  time.Duration
	CheatCheckEvery time.Duration
	GuessReward     int
	TimeoutPenalty  int
	CheatPenalty    int
}

func DefaultConfig() Config {
	return Config{
		RoundDuration:   60 * time.Second,
		TickInterval:    time.Second,
		FirstRoundDelay: 1500 * time.Millisecond,
		NextRoundDelay:  2500 * time.Millisecond,
		CheatCheckEvery: 3 * time.Second,
		GuessReward:     20,
		TimeoutPenalty:  10,
		CheatPenalty:    10,
	}
}

// Engine drives every room's state machine: game start, drawer rotation,
// timed rounds, guess scoring and teardown. It owns no goroutine of its
// own; timers and delayed round starts run on their own and re-validate
// the room generation before touching state.
type Engine struct {
	reg        *Registry
	sender     Sender
	pool       *words.Pool
	classifier Classifier
	cfg        Config
	log        zerolog.Logger
}

func NewEngine(reg *Registry, sender Sender, pool *words.Pool, classifier Classifier, cfg Config, log zerolog.Logger) *Engine {
	return &Engine{
		reg:        reg,
		sender:     sender,
		pool:       pool,
		classifier: classifier,
		cfg:        cfg,
		log:        log,
	}
}

// sendError reports a failed precondition to the invoking connection only.
// Room state is never mutated on these paths.
func (e *Engine) sendError(connID, msg string) {
	e.sender.Send(connID, EventError, ErrorEvent{Message: msg})
}

// broadcast fans an event out to every member. Sender is non-blocking, so
// holding r.mu across the loop is fine and keeps the snapshot consistent.
func (e *Engine) broadcast(r *Room, event string, payload any) {
	for _, m := range r.members {
		e.sender.Send(m, event, payload)
	}
}

func (e *Engine) broadcastExcept(r *Room, except, event string, payload any) {
	for _, m := range r.members {
		if m == except {
			continue
		}
		e.sender.Send(m, event, payload)
	}
}

// StartGame freezes the roster, zeroes the scoreboard and schedules the
// first round after a short grace period so clients can render the
// transition.
func (e *Engine) StartGame(roomID, connID string) {
	r, ok := e.reg.Get(roomID)
	if !ok {
		e.sendError(connID, "Room not found")
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.gameActive {
		e.sendError(connID, "Game already running")
		return
	}
	if len(r.members) < 2 {
		e.sendError(connID, "Need at least 2 players to start")
		return
	}

	r.playerOrder = append([]string(nil), r.members...)
	r.totalRounds = len(r.playerOrder)
	r.roundIndex = 0
	r.scores.Reset(r.playerOrder)
	r.gameActive = true
	r.roundActive = false
	r.drawer = ""
	r.secretWord = ""
	r.gen++

	players := make([]string, len(r.playerOrder))
	for i, id := range r.playerOrder {
		players[i] = r.nameOf(id)
	}

	e.log.Info().Str("room", r.id).Int("players", len(players)).Msg("game started")
	e.broadcast(r, EventGameStarted, GameStarted{
		TotalRounds: r.totalRounds,
		Players:     players,
		Message:     "The game has started",
	})

	e.scheduleRoundStart(r, r.gen, e.cfg.FirstRoundDelay)
}

// scheduleRoundStart arms a delayed continuation bound to the given
// generation. If the room moves on before it fires (game ended, player
// drain) the stale callback does nothing.
func (e *Engine) scheduleRoundStart(r *Room, gen uint64, delay time.Duration) {
	time.AfterFunc(delay, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.gen != gen || !r.gameActive {
			return
		}
		e.startRoundLocked(r)
	})
}

// startRoundLocked selects the next drawer, picks a word and arms the
// countdown. Caller holds r.mu.
func (e *Engine) startRoundLocked(r *Room) {
	if len(r.members) < 2 {
		e.endGameLocked(r, ReasonNotEnoughPlayers)
		return
	}

	drawer, ok := r.nextDrawer()
	if !ok {
		e.endGameLocked(r, ReasonNoPlayersLeft)
		return
	}

	r.drawer = drawer
	r.secretWord = e.pool.Pick()
	r.roundActive = true
	r.remainingMs = e.cfg.RoundDuration.Milliseconds()
	r.cheatLimiter = rate.NewLimiter(rate.Every(e.cfg.CheatCheckEvery), 1)
	r.gen++

	e.log.Info().Str("room", r.id).Str("drawer", r.nameOf(drawer)).Int("round", r.roundIndex).Msg("round started")

	e.sender.Send(drawer, EventYourTurn, YourTurn{
		Word:          r.secretWord,
		RemainingTime: r.remainingMs,
	})
	e.broadcast(r, EventRoundStarted, RoundStarted{
		RoundNumber:   r.roundIndex,
		Drawer:        r.nameOf(drawer),
		RemainingTime: r.remainingMs,
		Message:       "The round has started!",
	})

	e.armTimer(r)
}

// armTimer starts the per-room countdown. Exactly one timer is armed per
// room: startRoundLocked is the only caller and every end path cancels it.
func (e *Engine) armTimer(r *Room) {
	r.cancelTimer()
	t := newRoundTimer(e.cfg.TickInterval)
	r.timer = t
	gen := r.gen
	go t.run(func() bool { return e.tick(r, gen) })
}

// tick decrements the countdown for the generation it was armed with.
// Returns false once the round it belonged to is over.
func (e *Engine) tick(r *Room, gen uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.gen != gen || !r.roundActive {
		return false
	}

	r.remainingMs -= e.cfg.TickInterval.Milliseconds()
	if r.remainingMs <= 0 {
		e.endRoundLocked(r, ReasonTimeout, "")
		return false
	}

	e.broadcast(r, EventTimerUpdate, TimerUpdate{RemainingTime: r.remainingMs})
	return true
}

// SubmitGuess evaluates one guess. Matching is case-insensitive on the
// trimmed text; near misses get a private "close" hint.
func (e *Engine) SubmitGuess(roomID, connID, guess string) {
	r, ok := e.reg.Get(roomID)
	if !ok {
		e.sendError(connID, "Room not found")
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.roundActive {
		return
	}
	if !r.isMember(connID) {
		e.sendError(connID, "You are not in this room")
		return
	}
	if connID == r.drawer {
		e.sendError(connID, "Drawer cannot guess")
		return
	}

	got := strings.ToLower(strings.TrimSpace(guess))
	want := strings.ToLower(strings.TrimSpace(r.secretWord))

	if got != want {
		dist := levenshtein.ComputeDistance(got, want)
		e.sender.Send(connID, EventGuessFeedback, GuessFeedback{
			Correct: false,
			Close:   dist <= 2,
			Guess:   guess,
		})
		return
	}

	r.scores.Add(connID, e.cfg.GuessReward)
	name := r.nameOf(connID)
	e.broadcast(r, EventCorrectGuess, CorrectGuess{
		Player:  name,
		Guess:   guess,
		Message: fmt.Sprintf("%s guessed correctly", name),
	})
	e.endRoundLocked(r, ReasonCorrect, connID)
}

// RelayStroke forwards drawing data to everyone but the sender, gated on
// the sender being the active drawer. Anything else is dropped.
func (e *Engine) RelayStroke(roomID, connID string, stroke json.RawMessage) {
	r, ok := e.reg.Get(roomID)
	if !ok {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.roundActive || r.drawer != connID {
		return
	}
	e.broadcastExcept(r, connID, EventDrawing, DrawingRelay{Stroke: stroke})
}

// endRoundLocked ends the active round exactly once. A timeout and a
// correct guess landing in the same instant race to this guard; the loser
// finds roundActive already false and does nothing. Caller holds r.mu.
func (e *Engine) endRoundLocked(r *Room, reason, winnerID string) {
	if !r.roundActive {
		return
	}

	r.roundActive = false
	r.gen++
	r.cancelTimer()

	if reason == ReasonTimeout && r.drawer != "" {
		r.scores.Penalize(r.drawer, e.cfg.TimeoutPenalty)
	}

	var winner string
	if winnerID != "" {
		winner = r.nameOf(winnerID)
	}

	e.log.Info().Str("room", r.id).Str("reason", reason).Int("round", r.roundIndex).Msg("round ended")
	e.broadcast(r, EventRoundEnded, RoundEnded{
		Reason:  reason,
		Winner:  winner,
		Word:    r.secretWord,
		Scores:  r.scoreEntries(),
		Message: "The round has ended",
	})

	r.roundIndex++
	if r.roundIndex >= r.totalRounds {
		e.endGameLocked(r, ReasonFinished)
		return
	}

	e.scheduleRoundStart(r, r.gen, e.cfg.NextRoundDelay)
}

// endGameLocked tears the session down: announces the winner, cancels any
// countdown and removes the room from the registry. Caller holds r.mu.
func (e *Engine) endGameLocked(r *Room, reason string) {
	r.gameActive = false
	r.roundActive = false
	r.gen++
	r.cancelTimer()

	winner := "Nobody"
	if id, ok := r.scores.Leader(); ok {
		winner = r.nameOf(id)
	}

	e.log.Info().Str("room", r.id).Str("reason", reason).Str("winner", winner).Msg("game ended")
	e.broadcast(r, EventGameEnded, GameEnded{
		Reason:  reason,
		Winner:  winner,
		Scores:  r.scoreEntries(),
		Message: fmt.Sprintf("%s won the game", winner),
	})

	e.reg.Delete(r.id)
}
