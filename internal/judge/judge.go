// Package judge runs move lists through a game and reports the outcome.
package judge

import (
	"errors"
	"io"
	"time"

	"connectz/internal/game"
	"connectz/internal/source"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// MoveSource supplies a validated config followed by 0-based columns,
// returning io.EOF when the moves run out.
type MoveSource interface {
	Config() (game.Config, error)
	Next() (int, error)
}

// Report is the result of judging one move list.
type Report struct {
	ID        string
	Outcome   game.Outcome
	Moves     int
	Err       error
	StartedAt time.Time
	EndedAt   time.Time
}

// Judge runs games. OnFinish, if set, is called once per Report.
type Judge struct {
	OnFinish func(Report)
}

var defaultJudge = &Judge{}

// File judges the game file at path.
func File(path string) Report { return defaultJudge.File(path) }

// Run judges src, which the caller closes.
func Run(src MoveSource) Report { return defaultJudge.Run(src) }

func (j *Judge) File(path string) Report {
	started := time.Now()
	src, err := source.Open(path)
	if err != nil {
		return j.finish(newReport(started), nil, err)
	}
	defer src.Close()
	return j.Run(src)
}

func (j *Judge) Run(src MoveSource) Report {
	rep := newReport(time.Now())

	cfg, err := src.Config()
	if err != nil {
		return j.finish(rep, nil, err)
	}
	g, err := game.NewGame(cfg)
	if err != nil {
		return j.finish(rep, nil, err)
	}
	log.WithFields(log.Fields{"run": rep.ID, "x": cfg.Columns, "y": cfg.Rows, "z": cfg.WinLength}).Debug("game started")

	for {
		col, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return j.finish(rep, g, err)
		}
		if err := g.PlayMove(col); err != nil {
			return j.finish(rep, g, err)
		}
	}
	return j.finish(rep, g, nil)
}

func newReport(started time.Time) Report {
	return Report{ID: uuid.NewString(), StartedAt: started}
}

func (j *Judge) finish(rep Report, g *game.Game, err error) Report {
	rep.EndedAt = time.Now()
	rep.Err = err
	if g != nil {
		rep.Moves = g.Moves()
	}
	// g is only nil when err is set.
	if err != nil {
		rep.Outcome = game.OutcomeOf(err)
	} else {
		rep.Outcome = g.Result()
	}

	entry := log.WithFields(log.Fields{"run": rep.ID, "outcome": rep.Outcome, "moves": rep.Moves})
	if err != nil {
		entry = entry.WithError(err)
	}
	if g != nil && log.IsLevelEnabled(log.TraceLevel) {
		entry = entry.WithField("board", g.Board().String())
	}
	entry.Debug("game judged")

	if j.OnFinish != nil {
		j.OnFinish(rep)
	}
	return rep
}
