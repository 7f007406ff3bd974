package game

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const maxUsernameLen = 20

func validUsername(name string) bool {
	trimmed := strings.TrimSpace(name)
	return trimmed != "" && utf8.RuneCountInString(name) <= maxUsernameLen
}

// CreateRoom registers a new room with the creator as its first member.
// Room ids are chosen by the client and must be free.
func (e *Engine) CreateRoom(connID, roomID, username string) {
	if !validUsername(username) {
		e.sendError(connID, "Invalid username")
		return
	}

	r := newRoom(roomID)
	r.addMember(connID, username)

	if err := e.reg.Put(r); err != nil {
		e.sendError(connID, "The room already exists")
		return
	}

	e.log.Info().Str("room", roomID).Str("user", username).Msg("room created")
	e.sender.Send(connID, EventRoomCreated, RoomAck{
		RoomID:   roomID,
		Username: username,
		Message:  "The room has been created!",
	})
}

// JoinRoom adds a connection to an existing room. Joining is closed once
// a game is running; the rotation roster was frozen at game start.
func (e *Engine) JoinRoom(connID, roomID, username string) {
	r, ok := e.reg.Get(roomID)
	if !ok {
		e.sendError(connID, "This room does not exist")
		return
	}
	if !validUsername(username) {
		e.sendError(connID, "Invalid username")
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.gameActive {
		e.sendError(connID, "Game has already started, you can't join")
		return
	}
	if r.isMember(connID) {
		e.sendError(connID, "You can not join the same room twice!")
		return
	}

	r.addMember(connID, username)

	e.log.Info().Str("room", roomID).Str("user", username).Msg("player joined")
	e.sender.Send(connID, EventRoomJoined, RoomAck{
		RoomID:   roomID,
		Username: username,
		Message:  "You have joined the room",
	})
	e.broadcastExcept(r, connID, EventMessage, ChatNotice{
		Message: fmt.Sprintf("%s joined room %s", username, roomID),
	})
}

// LeaveRoom handles an explicit leave request.
func (e *Engine) LeaveRoom(connID, roomID string) {
	r, ok := e.reg.Get(roomID)
	if !ok {
		e.sendError(connID, "This room does not exist")
		return
	}
	e.cleanup(r, connID)
}

// Disconnect handles an abrupt departure: the connection is purged from
// every room it sits in, with the same consequences as an explicit leave.
func (e *Engine) Disconnect(connID string) {
	for _, r := range e.reg.All() {
		e.cleanup(r, connID)
	}
}

// cleanup removes a connection from one room, terminating whatever its
// departure invalidates: the round if it was drawing, the game if too few
// players remain, the room itself if it is now empty.
func (e *Engine) cleanup(r *Room, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isMember(connID) {
		return
	}

	if r.gameActive && r.roundActive && r.drawer == connID {
		e.endRoundLocked(r, ReasonDrawerLeft, "")
	}

	username := r.nameOf(connID)
	r.removeMember(connID)

	if r.gameActive && len(r.members) < 2 {
		e.endGameLocked(r, ReasonNotEnoughPlayers)
	}

	e.broadcast(r, EventPlayerLeft, PlayerLeft{
		Message: fmt.Sprintf("%s left the game", username),
	})

	if len(r.members) == 0 {
		r.cancelTimer()
		r.gen++
		e.reg.Delete(r.id)
		e.log.Info().Str("room", r.id).Msg("room deleted")
	}
}
