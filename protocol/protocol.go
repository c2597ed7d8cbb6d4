package protocol

import (
	"encoding/json"
)

const (
	// inbound to the session
	MsgHello   = "hello"
	MsgInput   = "input"
	MsgReset   = "reset"
	MsgSpecial = "special"

	// outbound from the session
	MsgWelcome  = "welcome"
	MsgState    = "state"
	MsgGoal     = "goal"
	MsgMatchEnd = "matchEnd"
)

const (
	SimTickHz   = 120
	ConsumerHz  = 60
	BroadcastHz = 20
)

type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"` // raw payload bytes
}
