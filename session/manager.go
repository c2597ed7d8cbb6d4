package session

import (
	"crypto/rand"
	"math/big"
	"sync"

	"headball/match"
	"headball/replay"
)

// SessionInfo is returned by the API for the session list.
type SessionInfo struct {
	Code    string `json:"code"`
	Players int    `json:"players"`
	AILevel string `json:"aiLevel,omitempty"`
}

// Manager holds running sessions by code. Sessions are created explicitly
// with a match configuration and removed when the last player leaves.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	store    *replay.Store
}

func NewManager(store *replay.Store) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		store:    store,
	}
}

// Get returns the session for the given code, or nil.
func (m *Manager) Get(code string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[code]
}

func (m *Manager) remove(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[code]; ok {
		s.Stop()
		delete(m.sessions, code)
	}
}

const codeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Create builds a session from the match configuration under a unique
// 6-char code and starts its loop.
func (m *Manager) Create(cfg match.Config) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for {
		code := generateCode(6)
		if _, exists := m.sessions[code]; exists {
			continue
		}
		s, err := New(cfg, m.store)
		if err != nil {
			return "", err
		}
		s.ID = code
		s.OnEmpty = func(c string) {
			m.remove(c)
		}
		m.sessions[code] = s
		go s.Run()
		return code, nil
	}
}

// List returns all active sessions with code and player count.
func (m *Manager) List() []SessionInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]SessionInfo, 0, len(m.sessions))
	for code, s := range m.sessions {
		info := SessionInfo{Code: code, Players: s.NumPlayers()}
		if s.cfg.AIEnabled {
			info.AILevel = s.cfg.AILevel
		}
		out = append(out, info)
	}
	return out
}

func generateCode(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(codeChars)))
	for i := range b {
		idx, _ := rand.Int(rand.Reader, max)
		b[i] = codeChars[idx.Int64()]
	}
	return string(b)
}
