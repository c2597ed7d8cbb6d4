package protocol

type Welcome struct {
	PlayerID string `json:"playerId"`
	Side     string `json:"side"` // "left" or "right"
	TickHz   int    `json:"tickHz"`
	// Appearance echoes the match setup's presentation-only skin selector.
	Appearance int `json:"appearance"`
}

type BodySnapshot struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	VX float64 `json:"vx"`
	VY float64 `json:"vy"`
}

type State struct {
	Tick        uint64       `json:"tick"`
	Ball        BodySnapshot `json:"ball"`
	PlayerLeft  BodySnapshot `json:"playerLeft"`
	PlayerRight BodySnapshot `json:"playerRight"`
	ScoreLeft   int          `json:"scoreLeft"`
	ScoreRight  int          `json:"scoreRight"`
	Phase       string       `json:"phase"`
	RemainingMs int64        `json:"remainingMs"`
}

type Goal struct {
	Side string `json:"side"` // "left" or "right" (the scoring side)
}

type MatchEnd struct {
	ScoreLeft  int `json:"scoreLeft"`
	ScoreRight int `json:"scoreRight"`
}
