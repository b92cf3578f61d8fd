package judge

import (
	"testing"
	"time"

	"connectz/internal/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedAll(t *testing.T, m *Manager, id string, lines ...string) Step {
	t.Helper()
	var last Step
	for _, line := range lines {
		step, err := m.Feed(id, line)
		require.NoError(t, err, "line %q", line)
		last = step
	}
	return last
}

func TestManagerPlaysFedLines(t *testing.T) {
	m := NewManager(time.Minute, nil)
	id := m.Open()

	step, err := m.Feed(id, "4 4 3")
	require.NoError(t, err)
	require.NotNil(t, step.Config)
	assert.Equal(t, 3, step.Config.WinLength)

	step = feedAll(t, m, id, "1", "1", "2", "2")
	require.NotNil(t, step.Placement)
	assert.Equal(t, game.Placement{Column: 1, Row: 1, Player: game.Player2}, *step.Placement)

	step = feedAll(t, m, id, "3")
	require.NotNil(t, step.Placement)
	assert.True(t, step.Placement.Won)

	// A win does not close the stream; the next move does.
	step = feedAll(t, m, id, "4")
	require.NotNil(t, step.Report)
	assert.Equal(t, game.IllegalContinue, step.Report.Outcome)

	_, err = m.Feed(id, "4")
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestManagerFinishClassifies(t *testing.T) {
	m := NewManager(time.Minute, nil)

	win := m.Open()
	feedAll(t, m, win, "3 3 1", "2")
	rep, err := m.Finish(win)
	require.NoError(t, err)
	assert.Equal(t, game.Player1Win, rep.Outcome)
	assert.Equal(t, 1, rep.Moves)

	again, err := m.Finish(win)
	require.NoError(t, err)
	assert.Equal(t, rep, again)

	draw := m.Open()
	feedAll(t, m, draw, "3 2 3", "1", "2", "3", "1", "2", "3")
	rep, err = m.Finish(draw)
	require.NoError(t, err)
	assert.Equal(t, game.Draw, rep.Outcome)
	assert.Equal(t, 6, rep.Moves)

	empty := m.Open()
	rep, err = m.Finish(empty)
	require.NoError(t, err)
	assert.Equal(t, game.InvalidFile, rep.Outcome)

	_, err = m.Finish("unknown")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestManagerRejectsBadLines(t *testing.T) {
	m := NewManager(time.Minute, nil)

	cases := []struct {
		lines []string
		want  game.Outcome
	}{
		{[]string{"4 4 8"}, game.IllegalGame},
		{[]string{"2 2 3"}, game.IllegalGame},
		{[]string{"4 4"}, game.InvalidFile},
		{[]string{"4 4 3", "one"}, game.InvalidFile},
		{[]string{"4 4 3", "9"}, game.IllegalColumn},
		{[]string{"1 2 2", "1", "1", "1"}, game.IllegalRow},
	}
	for _, tc := range cases {
		id := m.Open()
		step := feedAll(t, m, id, tc.lines...)
		require.NotNil(t, step.Report, "%v", tc.lines)
		assert.Equal(t, tc.want, step.Report.Outcome, "%v", tc.lines)
		assert.Equal(t, id, step.Report.ID)

		s, ok := m.Get(id)
		require.True(t, ok)
		assert.Equal(t, StatusFinished, s.Status)
	}
}

func TestManagerUnknownSession(t *testing.T) {
	m := NewManager(time.Minute, nil)
	_, err := m.Feed("missing", "1")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestManagerOnFinishCalledOnce(t *testing.T) {
	done := make(chan Report, 4)
	m := NewManager(time.Minute, func(r Report) { done <- r })
	id := m.Open()
	feedAll(t, m, id, "3 3 1", "1", "1")
	_, err := m.Finish(id)
	require.NoError(t, err)

	select {
	case rep := <-done:
		assert.Equal(t, game.IllegalContinue, rep.Outcome)
	case <-time.After(time.Second):
		t.Fatal("onFinish not called")
	}
	select {
	case rep := <-done:
		t.Fatalf("onFinish called twice: %+v", rep)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestManagerSweepIdle(t *testing.T) {
	m := NewManager(10*time.Millisecond, nil)
	active := m.Open()
	feedAll(t, m, active, "4 4 4", "1")
	waiting := m.Open()

	time.Sleep(20 * time.Millisecond)
	m.SweepIdle()

	s, ok := m.Get(active)
	require.True(t, ok)
	assert.Equal(t, StatusFinished, s.Status)
	assert.Equal(t, game.Incomplete, s.Report.Outcome)

	s, ok = m.Get(waiting)
	require.True(t, ok)
	assert.Equal(t, game.InvalidFile, s.Report.Outcome)

	time.Sleep(20 * time.Millisecond)
	m.SweepIdle()
	_, ok = m.Get(active)
	assert.False(t, ok, "finished sessions are dropped on the next sweep")
}
