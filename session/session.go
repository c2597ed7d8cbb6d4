// Package session runs the consumer-rate side of a match: it reads the
// driver's latest snapshot each frame, advances the rules clock, drives the
// AI and the replay recorder, and broadcasts state to connected clients. The
// physics itself ticks independently in the driver's goroutine.
package session

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"headball/ai"
	"headball/game"
	"headball/match"
	"headball/protocol"
	"headball/replay"
	"headball/sim"
)

type client struct {
	conn   Conn
	entity game.EntityID
	name   string
}

// Session is an actor: all mutation happens on its Run goroutine, fed by the
// Inbox and a frame ticker.
type Session struct {
	Inbox chan any

	driver   *sim.Driver
	orch     *match.Orchestrator
	policy   *ai.Policy
	recorder *replay.Recorder
	store    *replay.Store
	cfg      match.Config

	clients        map[string]client
	takenSides     map[game.EntityID]string // entity -> playerID
	numPlayers     atomic.Int32             // mirror of len(clients) for readers off the loop
	nextID         int
	frameHz        int
	broadcastEvery int
	frame          int
	clockAccMs     float64
	ended          bool
	quit           chan struct{}
	stopOnce       sync.Once

	ID      string          // session code
	OnEmpty func(id string) // called when last player leaves
}

// New builds a session for one match. Driver construction failure (the
// physics world cannot be built) is surfaced here, before anything starts.
func New(cfg match.Config, store *replay.Store) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	driver, err := sim.New(sim.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	broadcastEvery := protocol.ConsumerHz / protocol.BroadcastHz
	if broadcastEvery <= 0 {
		broadcastEvery = 1
	}
	s := &Session{
		Inbox:          make(chan any, 256),
		driver:         driver,
		orch:           match.NewOrchestrator(),
		recorder:       replay.NewRecorder(),
		store:          store,
		cfg:            cfg,
		clients:        make(map[string]client),
		takenSides:     make(map[game.EntityID]string),
		nextID:         1,
		frameHz:        protocol.ConsumerHz,
		broadcastEvery: broadcastEvery,
		quit:           make(chan struct{}),
	}
	if cfg.AIEnabled {
		profile, err := match.ProfileFor(cfg.AILevel)
		if err != nil {
			return nil, err
		}
		s.policy = ai.New(profile, game.PlayerRight, rand.New(rand.NewSource(time.Now().UnixNano())))
	}
	return s, nil
}

// Stop cancels the session loop. Safe to call more than once.
func (s *Session) Stop() {
	s.stopOnce.Do(func() { close(s.quit) })
}

// NumPlayers returns the current number of connected clients. Safe to call
// from outside the session goroutine.
func (s *Session) NumPlayers() int {
	return int(s.numPlayers.Load())
}

// Run drives the consumer loop until Stop. The simulation driver is started
// here and always cancelled on the way out.
func (s *Session) Run() {
	s.driver.Start()
	defer s.driver.Stop()

	ticker := time.NewTicker(time.Second / time.Duration(s.frameHz))
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-s.quit:
			return
		case cmd := <-s.Inbox:
			s.handleCommand(cmd)
		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now
			s.updateFrame(elapsed)
		}
	}
}

// updateFrame is one consumer frame: rules clock, AI, recorder, broadcast.
func (s *Session) updateFrame(elapsed time.Duration) {
	if s.ended {
		return
	}
	elapsedMs := float64(elapsed.Microseconds()) / 1000.0
	if elapsedMs < 0 {
		elapsedMs = 0
	}

	snap := s.driver.Latest()

	goals := s.drainGoals()
	// The rules clock is integer milliseconds; carry the fractional part of
	// the frame interval forward so truncation cannot compound into drift.
	s.clockAccMs += elapsedMs
	wholeMs := int64(s.clockAccMs)
	s.clockAccMs -= float64(wholeMs)
	completed := s.orch.Advance(wholeMs, goals)
	if len(goals) > 0 {
		// The driver already reset positions on the goal tick; push the
		// post-reset state now instead of waiting for the broadcast frame.
		s.broadcastState(snap)
	}

	if s.policy != nil {
		cmd := s.policy.Update(elapsedMs, snap)
		s.driver.Submit(s.policy.Entity(), cmd)
	}

	s.recorder.Update(elapsedMs, snap, s.orch.State())

	s.frame++
	if s.frame%s.broadcastEvery == 0 {
		s.broadcastState(snap)
	}

	if completed {
		s.finish(snap)
	}
}

// drainGoals empties the driver's goal-event stream, announcing each goal to
// the clients as it is consumed.
func (s *Session) drainGoals() []game.GoalEvent {
	var goals []game.GoalEvent
	for {
		select {
		case ev := <-s.driver.Events():
			goals = append(goals, ev.Side)
			s.broadcastGoal(ev.Side)
		default:
			return goals
		}
	}
}

// finish runs exactly once: the driver is cancelled, the AI and recorder are
// detached, and the finished recording is appended to the store.
func (s *Session) finish(snap *game.Snapshot) {
	st := s.orch.State()
	level := ""
	if s.cfg.AIEnabled {
		level = s.cfg.AILevel
	}
	rec := s.recorder.Finish(level, st, time.Now())
	if s.store != nil {
		if err := s.store.Append(rec); err != nil {
			slog.Error("session: persist replay failed", "session", s.ID, "err", err)
		}
	}

	s.broadcastState(snap)
	if b, err := protocol.Encode(protocol.MsgMatchEnd, protocol.MatchEnd{
		ScoreLeft:  st.ScoreLeft,
		ScoreRight: st.ScoreRight,
	}); err == nil {
		s.sendAll(b)
	}

	s.driver.Stop()
	s.policy = nil
	s.ended = true
	slog.Info("session: match ended",
		"session", s.ID,
		"scoreLeft", st.ScoreLeft,
		"scoreRight", st.ScoreRight,
		"frames", len(rec.Frames))
}

func (s *Session) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case Join:
		s.handleJoin(c)
	case ClientInput:
		cl, ok := s.clients[c.PlayerID]
		if !ok {
			return
		}
		s.driver.Submit(cl.entity, c.Command)
	case ResetRequest:
		if _, ok := s.clients[c.PlayerID]; !ok {
			return
		}
		s.driver.RequestReset()
	case SpecialRequest:
		cl, ok := s.clients[c.PlayerID]
		if !ok {
			return
		}
		s.driver.Submit(cl.entity, game.Command{SpecialImpulse: true})
	case Leave:
		s.handleLeave(c.PlayerID)
	}
}

func (s *Session) handleJoin(c Join) {
	entity, ok := s.freeSide()
	if !ok {
		c.Reply <- JoinResult{}
		return
	}
	playerID := fmt.Sprintf("p%d", s.nextID)
	s.nextID++
	s.clients[playerID] = client{conn: c.Conn, entity: entity, name: c.Name}
	s.takenSides[entity] = playerID
	s.numPlayers.Store(int32(len(s.clients)))

	side := "left"
	if entity == game.PlayerRight {
		side = "right"
	}
	c.Reply <- JoinResult{PlayerID: playerID, Side: side}

	if b, err := protocol.Encode(protocol.MsgWelcome, protocol.Welcome{
		PlayerID:   playerID,
		Side:       side,
		TickHz:     protocol.SimTickHz,
		Appearance: s.cfg.PlayerAppearance,
	}); err == nil {
		_ = c.Conn.Send(b)
	}
}

// freeSide assigns the left seat first. The right seat belongs to the AI
// whenever it is enabled.
func (s *Session) freeSide() (game.EntityID, bool) {
	if _, taken := s.takenSides[game.PlayerLeft]; !taken {
		return game.PlayerLeft, true
	}
	if s.cfg.AIEnabled {
		return 0, false
	}
	if _, taken := s.takenSides[game.PlayerRight]; !taken {
		return game.PlayerRight, true
	}
	return 0, false
}

// handleLeave runs the empty-session check even when the client is already
// gone: a connection reaped on a send failure still delivers a Leave from its
// read loop, and that Leave must still be able to tear the session down.
func (s *Session) handleLeave(playerID string) {
	if cl, ok := s.clients[playerID]; ok {
		_ = cl.conn.Close()
		delete(s.clients, playerID)
		delete(s.takenSides, cl.entity)
		s.numPlayers.Store(int32(len(s.clients)))
	}
	if len(s.clients) == 0 && s.OnEmpty != nil && s.ID != "" {
		s.OnEmpty(s.ID)
	}
}

func (s *Session) removeClient(playerID string) {
	if cl, ok := s.clients[playerID]; ok {
		_ = cl.conn.Close()
		delete(s.takenSides, cl.entity)
	}
	delete(s.clients, playerID)
	s.numPlayers.Store(int32(len(s.clients)))
}

func (s *Session) broadcastState(snap *game.Snapshot) {
	st := s.orch.State()
	b, err := protocol.Encode(protocol.MsgState, buildState(snap, st))
	if err != nil {
		return
	}
	s.sendAll(b)
}

func (s *Session) broadcastGoal(side game.GoalEvent) {
	name := "left"
	if side == game.GoalRightScored {
		name = "right"
	}
	if b, err := protocol.Encode(protocol.MsgGoal, protocol.Goal{Side: name}); err == nil {
		s.sendAll(b)
	}
}

func (s *Session) sendAll(b []byte) {
	var failed []string
	for id, cl := range s.clients {
		if err := cl.conn.Send(b); err != nil {
			failed = append(failed, id)
		}
	}
	for _, id := range failed {
		s.removeClient(id)
	}
}

func buildState(snap *game.Snapshot, st match.State) protocol.State {
	toWire := func(b game.BodyState) protocol.BodySnapshot {
		return protocol.BodySnapshot{X: b.X, Y: b.Y, VX: b.VX, VY: b.VY}
	}
	return protocol.State{
		Tick:        snap.Tick,
		Ball:        toWire(snap.Body(game.Ball)),
		PlayerLeft:  toWire(snap.Body(game.PlayerLeft)),
		PlayerRight: toWire(snap.Body(game.PlayerRight)),
		ScoreLeft:   st.ScoreLeft,
		ScoreRight:  st.ScoreRight,
		Phase:       st.Phase.String(),
		RemainingMs: st.RemainingMs,
	}
}
