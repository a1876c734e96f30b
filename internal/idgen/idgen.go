package idgen

import (
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Sequence issues prefixed sequential IDs (ROOM1, ROOM2, ...). Observe
// advances the counter past restored IDs so a restarted process never
// reissues one.
type Sequence struct {
	mu     sync.Mutex
	prefix string
	n      int64
}

func NewSequence(prefix string) *Sequence { return &Sequence{prefix: prefix} }

func (s *Sequence) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return s.prefix + strconv.FormatInt(s.n, 10)
}

func (s *Sequence) Observe(id string) {
	rest, ok := strings.CutPrefix(id, s.prefix)
	if !ok {
		return
	}
	n, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return
	}
	s.mu.Lock()
	if n > s.n {
		s.n = n
	}
	s.mu.Unlock()
}

// UUID issues random v4 identifiers; nothing to resume after a restore.
type UUID struct{}

func NewUUID() UUID { return UUID{} }

func (UUID) Next() string      { return uuid.NewString() }
func (UUID) Observe(id string) {}
