package judge

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"connectz/internal/game"
	"connectz/internal/source"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	StatusConfiguring = "configuring"
	StatusActive      = "active"
	StatusFinished    = "finished"
)

var (
	ErrNoSession     = errors.New("no such session")
	ErrSessionClosed = errors.New("session already finished")
)

// Session is a game fed one line at a time: the config line first, then
// moves.
type Session struct {
	ID         string
	Status     string
	Game       *game.Game
	Report     Report
	StartedAt  time.Time
	LastLineAt time.Time
}

// Step is what a single fed line produced. Exactly one field is set.
type Step struct {
	Config    *game.Config
	Placement *game.Placement
	Report    *Report
}

type Manager struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	idleAfter time.Duration
	onFinish  func(Report)
}

func NewManager(idleWindow time.Duration, onFinish func(Report)) *Manager {
	return &Manager{
		sessions:  make(map[string]*Session),
		idleAfter: idleWindow,
		onFinish:  onFinish,
	}
}

func (m *Manager) Open() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	s := &Session{
		ID:         uuid.NewString(),
		Status:     StatusConfiguring,
		StartedAt:  now,
		LastLineAt: now,
	}
	m.sessions[s.ID] = s
	return s.ID
}

// Feed applies one input line to the session. A malformed or illegal line
// ends the session and is reported through Step.Report, not as an error.
func (m *Manager) Feed(id, line string) (Step, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return Step{}, ErrNoSession
	}
	if s.Status == StatusFinished {
		return Step{}, ErrSessionClosed
	}
	s.LastLineAt = time.Now()

	if s.Status == StatusConfiguring {
		cfg, err := source.ParseConfig(line)
		if err != nil {
			return m.finishLocked(s, fmt.Errorf("line 1: %w", err)), nil
		}
		g, err := game.NewGame(cfg)
		if err != nil {
			return m.finishLocked(s, err), nil
		}
		s.Game = g
		s.Status = StatusActive
		return Step{Config: &cfg}, nil
	}

	col, err := source.ParseMove(line)
	if err != nil {
		return m.finishLocked(s, fmt.Errorf("line %d: %w", s.Game.Moves()+2, err)), nil
	}
	p, err := s.Game.Play(col)
	if err != nil {
		return m.finishLocked(s, err), nil
	}
	return Step{Placement: &p}, nil
}

// Finish marks the end of the session's input and classifies it. Calling it
// on a finished session returns the existing report.
func (m *Manager) Finish(id string) (Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return Report{}, ErrNoSession
	}
	if s.Status == StatusFinished {
		return s.Report, nil
	}
	var err error
	if s.Status == StatusConfiguring {
		err = fmt.Errorf("%w: missing config line", game.ErrInvalidFile)
	}
	return *m.finishLocked(s, err).Report, nil
}

// Get returns a snapshot of the session.
func (m *Manager) Get(id string) (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// SweepIdle ends sessions that have not been fed within the idle window as
// if their input had ended, and drops finished ones past the same window.
func (m *Manager) SweepIdle() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for id, s := range m.sessions {
		if now.Sub(s.LastLineAt) <= m.idleAfter {
			continue
		}
		if s.Status == StatusFinished {
			delete(m.sessions, id)
			continue
		}
		var err error
		if s.Status == StatusConfiguring {
			err = fmt.Errorf("%w: missing config line", game.ErrInvalidFile)
		}
		m.finishLocked(s, err)
		log.Printf("session %s closed after idle timeout", id)
	}
}

func (m *Manager) finishLocked(s *Session, err error) Step {
	rep := Report{
		ID:        s.ID,
		StartedAt: s.StartedAt,
		EndedAt:   time.Now(),
		Err:       err,
	}
	if s.Game != nil {
		rep.Moves = s.Game.Moves()
	}
	if err != nil {
		rep.Outcome = game.OutcomeOf(err)
	} else {
		rep.Outcome = s.Game.Result()
	}
	s.Status = StatusFinished
	s.Report = rep
	if m.onFinish != nil {
		go m.onFinish(rep)
	}
	return Step{Report: &rep}
}
