package game

import "fmt"

// Config is the X Y Z triple from the first line of a game file.
type Config struct {
	Columns   int
	Rows      int
	WinLength int
}

// Validate checks that the board is non-empty and that a line of WinLength
// fits on it.
func (c Config) Validate() error {
	if c.Columns <= 0 || c.Rows <= 0 || c.WinLength < 1 || c.WinLength > max(c.Columns, c.Rows) {
		return fmt.Errorf("%w: %d %d %d", ErrIllegalGame, c.Columns, c.Rows, c.WinLength)
	}
	return nil
}

// Placement describes one accepted move.
type Placement struct {
	Column int
	Row    int
	Player Player
	Won    bool
}

type Game struct {
	board  *Board
	win    int
	turn   Player
	winner Player
	over   bool
	moves  int
}

func NewGame(cfg Config) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Game{
		board: NewBoard(cfg.Columns, cfg.Rows),
		win:   cfg.WinLength,
		turn:  Player1,
	}, nil
}

// PlayMove drops the current player's token into the 0-based column col.
func (g *Game) PlayMove(col int) error {
	_, err := g.Play(col)
	return err
}

// Play is PlayMove that also returns the accepted placement.
func (g *Game) Play(col int) (Placement, error) {
	if g.over {
		return Placement{}, ErrIllegalContinue
	}
	if col < 0 || col >= g.board.Width() {
		return Placement{}, fmt.Errorf("%w: index %d", ErrIllegalColumn, col)
	}
	if g.board.ColumnHeight(col) >= g.board.Height() {
		return Placement{}, fmt.Errorf("%w: index %d", ErrIllegalRow, col)
	}

	player := g.turn
	row := g.board.Place(col, player)
	g.moves++
	won := g.board.CheckWin(col, row, player, g.win)
	if won {
		g.over = true
		g.winner = player
	}
	g.turn = player.Opponent()
	return Placement{Column: col, Row: row, Player: player, Won: won}, nil
}

// IsDraw reports a full board with no winner. Only meaningful once the
// move stream has ended.
func (g *Game) IsDraw() bool {
	return !g.over && g.board.IsFull()
}

// Result classifies the game after its move stream has ended.
func (g *Game) Result() Outcome {
	if g.winner != NoPlayer {
		return WinFor(g.winner)
	}
	if g.IsDraw() {
		return Draw
	}
	return Incomplete
}

func (g *Game) Winner() (Player, bool) { return g.winner, g.winner != NoPlayer }
func (g *Game) Turn() Player           { return g.turn }
func (g *Game) Over() bool             { return g.over }
func (g *Game) Moves() int             { return g.moves }
func (g *Game) Board() *Board          { return g.board }
