package game

import "errors"

// ErrRoomExists is returned by the registry on an id collision. Other
// precondition failures never surface as Go errors: they are reported to
// the invoking connection as scoped error events and leave state alone.
var ErrRoomExists = errors.New("room already exists")
