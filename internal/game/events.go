package game

import "encoding/json"

// Outbound event names. These are the wire-level message types clients
// subscribe to.
const (
	EventRoomCreated      = "roomCreated"
	EventRoomJoined       = "roomJoined"
	EventMessage          = "message"
	EventGameStarted      = "gameStarted"
	EventRoundStarted     = "roundStarted"
	EventYourTurn         = "yourTurn"
	EventTimerUpdate      = "timerUpdate"
	EventCorrectGuess     = "correctGuess"
	EventGuessFeedback    = "guessFeedback"
	EventRoundEnded       = "roundEnded"
	EventGameEnded        = "gameEnded"
	EventCheatingDetected = "cheatingDetected"
	EventPlayerLeft       = "playerLeft"
	EventDrawing          = "drawing"
	EventError            = "error"
)

// Round / game end reasons.
const (
	ReasonCorrect          = "correct"
	ReasonTimeout          = "timeout"
	ReasonDrawerLeft       = "drawer_left"
	ReasonFinished         = "finished"
	ReasonNotEnoughPlayers = "not_enough_players"
	ReasonNoPlayersLeft    = "no_players_left"
)

// Sender delivers one event to one connection. Implementations must not
// block: the engine calls Send while holding per-room state, so a slow
// consumer has to be buffered or dropped on the transport side.
type Sender interface {
	Send(connID string, event string, payload any)
}

type RoomAck struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

type ChatNotice struct {
	Message string `json:"message"`
}

type GameStarted struct {
	TotalRounds int      `json:"totalRounds"`
	Players     []string `json:"players"`
	Message     string   `json:"message"`
}

type RoundStarted struct {
	RoundNumber   int    `json:"roundNumber"`
	Drawer        string `json:"drawer"`
	RemainingTime int64  `json:"remainingTime"`
	Message       string `json:"message"`
}

type YourTurn struct {
	Word          string `json:"word"`
	RemainingTime int64  `json:"remainingTime"`
}

type TimerUpdate struct {
	RemainingTime int64 `json:"remainingTime"`
}

type CorrectGuess struct {
	Player  string `json:"player"`
	Guess   string `json:"guess"`
	Message string `json:"message"`
}

type GuessFeedback struct {
	Correct bool   `json:"correct"`
	Close   bool   `json:"close"`
	Guess   string `json:"guess"`
}

type ScoreEntry struct {
	Player string `json:"player"`
	Score  int    `json:"score"`
}

type RoundEnded struct {
	Reason  string       `json:"reason"`
	Winner  string       `json:"winner,omitempty"`
	Word    string       `json:"word"`
	Scores  []ScoreEntry `json:"scores"`
	Message string       `json:"message"`
}

type GameEnded struct {
	Reason  string       `json:"reason"`
	Winner  string       `json:"winner"`
	Scores  []ScoreEntry `json:"scores"`
	Message string       `json:"message"`
}

type CheatingDetected struct {
	Drawer  string       `json:"drawer"`
	Scores  []ScoreEntry `json:"scores"`
	Message string       `json:"message"`
}

type DrawingRelay struct {
	Stroke json.RawMessage `json:"stroke"`
}

type PlayerLeft struct {
	Message string `json:"message"`
}

type ErrorEvent struct {
	Message string `json:"message"`
}
