package game

import (
	"context"
	"time"
)

// Verdict is the classifier's judgement of a canvas snapshot.
type Verdict string

const (
	// VerdictText means the drawer wrote the answer instead of drawing it.
	VerdictText    Verdict = "text"
	VerdictDrawing Verdict = "drawing"
)

// Classifier judges whether a canvas snapshot is a drawing or written-out
// text. Implementations are expected to be slow and fallible; the engine
// never trusts them with more than a score penalty.
type Classifier interface {
	Classify(ctx context.Context, snapshot, expectedWord string) (Verdict, error)
}

// classifyTimeout bounds the external call; the classifier's latency is
// otherwise unspecified and gameplay must not hang on it.
const classifyTimeout = 15 * time.Second

// CheckCheating forwards the drawer's canvas snapshot to the classifier,
// at most once per throttle window per room. The external call runs
// without the room lock, so guesses and departures stay processable while
// it is in flight; its verdict only lands if the same round is still
// running. Classifier failures are absorbed as "drawing": a flaky
// external dependency must never block gameplay.
func (e *Engine) CheckCheating(ctx context.Context, roomID, connID, snapshot string) {
	r, ok := e.reg.Get(roomID)
	if !ok {
		return
	}

	r.mu.Lock()
	if !r.roundActive || r.drawer != connID {
		r.mu.Unlock()
		return
	}
	if !r.cheatLimiter.Allow() {
		r.mu.Unlock()
		return
	}
	word := r.secretWord
	gen := r.gen
	r.mu.Unlock()

	go func() {
		cctx, cancel := context.WithTimeout(ctx, classifyTimeout)
		defer cancel()

		verdict, err := e.classifier.Classify(cctx, snapshot, word)
		if err != nil {
			// Fail open: no penalty, no crash.
			e.log.Warn().Err(err).Str("room", roomID).Msg("cheat check failed")
			return
		}
		if verdict != VerdictText {
			return
		}

		r.mu.Lock()
		defer r.mu.Unlock()
		if r.gen != gen {
			return
		}

		r.scores.Penalize(r.drawer, e.cfg.CheatPenalty)
		e.log.Info().Str("room", roomID).Str("drawer", r.nameOf(r.drawer)).Msg("cheating detected")
		e.broadcast(r, EventCheatingDetected, CheatingDetected{
			Drawer:  r.nameOf(r.drawer),
			Scores:  r.scoreEntries(),
			Message: "Drawer attempted cheating! Penalty imposed",
		})
	}()
}
