package replay

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// Source is the persistence boundary: an ordered collection of opaque record
// blobs. How the blobs reach disk (or a browser store) is someone else's
// concern; the store only needs load-all and store-all.
type Source interface {
	Load() ([][]byte, error)
	Store([][]byte) error
}

// MemorySource keeps blobs in memory. The default source for tests and for
// running without persistence.
type MemorySource struct {
	mu    sync.Mutex
	blobs [][]byte
}

// NewMemorySource returns an empty in-memory source.
func NewMemorySource() *MemorySource { return &MemorySource{} }

// Load returns a copy of the held blobs.
func (m *MemorySource) Load() ([][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.blobs))
	copy(out, m.blobs)
	return out, nil
}

// Store replaces the held blobs.
func (m *MemorySource) Store(blobs [][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs = make([][]byte, len(blobs))
	copy(m.blobs, blobs)
	return nil
}

// Store is the replay collection service: an ordered list of records
// addressed by index. Append and delete-by-index are the only mutations.
// Records are msgpack-encoded at the source boundary to stay compact.
type Store struct {
	mu      sync.Mutex
	src     Source
	records []Record
}

// NewStore loads the collection from src. A record that fails to decode is
// dropped with a warning instead of failing the whole load: one corrupt blob
// must not take every saved replay down with it.
func NewStore(src Source) (*Store, error) {
	blobs, err := src.Load()
	if err != nil {
		return nil, fmt.Errorf("replay: load store: %w", err)
	}
	s := &Store{src: src}
	for i, blob := range blobs {
		var rec Record
		if err := msgpack.Unmarshal(blob, &rec); err != nil {
			slog.Warn("replay: dropping corrupt record", "index", i, "err", err)
			continue
		}
		s.records = append(s.records, rec)
	}
	return s, nil
}

// Len reports the number of records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Get returns the record at index.
func (s *Store) Get(i int) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.records) {
		return Record{}, fmt.Errorf("replay: index %d out of range (%d records)", i, len(s.records))
	}
	return s.records[i], nil
}

// All returns a copy of the record list in order.
func (s *Store) All() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Append adds a finished record to the end of the collection and persists.
func (s *Store) Append(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	if err := s.persistLocked(); err != nil {
		s.records = s.records[:len(s.records)-1]
		return err
	}
	return nil
}

// Delete removes the record at index and persists.
func (s *Store) Delete(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.records) {
		return fmt.Errorf("replay: index %d out of range (%d records)", i, len(s.records))
	}
	removed := s.records[i]
	s.records = append(s.records[:i], s.records[i+1:]...)
	if err := s.persistLocked(); err != nil {
		s.records = append(s.records[:i], append([]Record{removed}, s.records[i:]...)...)
		return err
	}
	return nil
}

func (s *Store) persistLocked() error {
	blobs := make([][]byte, 0, len(s.records))
	for _, rec := range s.records {
		blob, err := msgpack.Marshal(rec)
		if err != nil {
			return fmt.Errorf("replay: encode record: %w", err)
		}
		blobs = append(blobs, blob)
	}
	if err := s.src.Store(blobs); err != nil {
		return fmt.Errorf("replay: persist store: %w", err)
	}
	return nil
}
