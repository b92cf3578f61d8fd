package game

import "strings"

type Player int

const (
	NoPlayer Player = 0
	Player1  Player = 1
	Player2  Player = 2
)

// Opponent returns the other player. NoPlayer has no opponent.
func (p Player) Opponent() Player {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	}
	return NoPlayer
}

// Board holds one stack of tokens per column, bottom to top.
type Board struct {
	width   int
	height  int
	columns [][]Player
}

func NewBoard(width, height int) *Board {
	columns := make([][]Player, width)
	for c := range columns {
		columns[c] = make([]Player, 0, height)
	}
	return &Board{width: width, height: height, columns: columns}
}

func (b *Board) Width() int  { return b.width }
func (b *Board) Height() int { return b.height }

// ColumnHeight returns the number of tokens in col.
func (b *Board) ColumnHeight(col int) int {
	return len(b.columns[col])
}

// At returns the token at (col,row), or false if that cell is empty or
// outside the board.
func (b *Board) At(col, row int) (Player, bool) {
	if col < 0 || col >= b.width || row < 0 || row >= len(b.columns[col]) {
		return NoPlayer, false
	}
	return b.columns[col][row], true
}

// Place drops player's token into col and returns the row it landed on.
// The caller checks that col is on the board and not full.
func (b *Board) Place(col int, player Player) int {
	b.columns[col] = append(b.columns[col], player)
	return len(b.columns[col]) - 1
}

var directions = [][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}

// CheckWin reports whether the token at (col,row) is part of a line of at
// least winLen tokens belonging to player.
func (b *Board) CheckWin(col, row int, player Player, winLen int) bool {
	for _, d := range directions {
		count := 1
		count += b.countFrom(col, row, d[0], d[1], player)
		count += b.countFrom(col, row, -d[0], -d[1], player)
		if count >= winLen {
			return true
		}
	}
	return false
}

// countFrom counts player's consecutive tokens starting one step away from
// (col,row) along (dc,dr).
func (b *Board) countFrom(col, row, dc, dr int, player Player) int {
	count := 0
	c, r := col+dc, row+dr
	for {
		p, ok := b.At(c, r)
		if !ok || p != player {
			return count
		}
		count++
		c += dc
		r += dr
	}
}

func (b *Board) IsFull() bool {
	for _, column := range b.columns {
		if len(column) < b.height {
			return false
		}
	}
	return true
}

// String renders the board top row first, '.' for empty cells.
func (b *Board) String() string {
	var sb strings.Builder
	for row := b.height - 1; row >= 0; row-- {
		for col := 0; col < b.width; col++ {
			p, ok := b.At(col, row)
			if !ok {
				sb.WriteByte('.')
				continue
			}
			sb.WriteByte(byte('0' + p))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
