package protocol

// input structs coming in from the client.

type Hello struct {
	V    int    `json:"v"`              // version
	Name string `json:"name,omitempty"` // optional name
}

// Input is the per-frame intent for the client's own entity. Opposing
// directions cancel server-side.
type Input struct {
	Left    bool `json:"left,omitempty"`
	Right   bool `json:"right,omitempty"`
	Jump    bool `json:"jump,omitempty"`
	Special bool `json:"special,omitempty"` // special-ability impulse edge
}

// Reset asks the session to teleport everyone back to kickoff.
type Reset struct{}

// Special triggers the special-ability impulse on its own, for clients that
// bind it separately from the movement input.
type Special struct{}
