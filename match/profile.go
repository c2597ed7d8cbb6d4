package match

import "fmt"

// AIProfile bounds the opponent: how long it stays blind between decisions
// and how far off its aim may land.
type AIProfile struct {
	Label               string
	ReactionTimeSeconds float64
	AimErrorDegrees     float64
}

// Levels in increasing skill order. Both knobs shrink strictly tier to tier.
var profiles = []AIProfile{
	{Label: "rookie", ReactionTimeSeconds: 0.55, AimErrorDegrees: 28},
	{Label: "amateur", ReactionTimeSeconds: 0.42, AimErrorDegrees: 20},
	{Label: "pro", ReactionTimeSeconds: 0.30, AimErrorDegrees: 14},
	{Label: "allstar", ReactionTimeSeconds: 0.20, AimErrorDegrees: 8},
	{Label: "legend", ReactionTimeSeconds: 0.12, AimErrorDegrees: 3},
}

// Levels returns the five difficulty labels in increasing skill order.
func Levels() []string {
	out := make([]string, len(profiles))
	for i, p := range profiles {
		out[i] = p.Label
	}
	return out
}

// Profiles returns the tier table in increasing skill order.
func Profiles() []AIProfile {
	out := make([]AIProfile, len(profiles))
	copy(out, profiles)
	return out
}

// ProfileFor looks a tier up by label.
func ProfileFor(label string) (AIProfile, error) {
	for _, p := range profiles {
		if p.Label == label {
			return p, nil
		}
	}
	return AIProfile{}, fmt.Errorf("match: unknown ai level %q", label)
}

// Config is the explicit per-match setup object. No ambient globals: whoever
// constructs the session passes one of these in.
type Config struct {
	AIEnabled bool   `json:"aiEnabled"`
	AILevel   string `json:"aiLevel"`
	// PlayerAppearance selects a presentation-side skin. It never reaches
	// the simulation; it is carried so the setup surface is complete.
	PlayerAppearance int `json:"playerAppearanceSelector"`
}

// DefaultConfig is a solo match against the middle tier.
func DefaultConfig() Config {
	return Config{AIEnabled: true, AILevel: "pro"}
}

// Validate checks the configuration against the recognized options.
func (c Config) Validate() error {
	if c.AIEnabled {
		if _, err := ProfileFor(c.AILevel); err != nil {
			return err
		}
	}
	if c.PlayerAppearance < 0 {
		return fmt.Errorf("match: negative appearance selector %d", c.PlayerAppearance)
	}
	return nil
}
