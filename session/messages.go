package session

import "headball/game"

type Conn interface {
	Send([]byte) error
	Close() error
}

// Join: issued once after hello parsed.
type Join struct {
	Conn  Conn
	Name  string
	Reply chan<- JoinResult
}

// JoinResult carries the assigned identity. An empty PlayerID means the
// session had no free side.
type JoinResult struct {
	PlayerID string
	Side     string
}

// ClientInput: latest per-frame intent for a player. Supersedes whatever
// command is already in that entity's mailbox.
type ClientInput struct {
	PlayerID string
	Command  game.Command
}

// ResetRequest: teleport everyone back to kickoff.
type ResetRequest struct {
	PlayerID string
}

// SpecialRequest: fire the special-ability impulse on its own.
type SpecialRequest struct {
	PlayerID string
}

// Leave: issued on disconnect.
type Leave struct {
	PlayerID string
}
