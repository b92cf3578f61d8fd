package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaceStacksBottomUp(t *testing.T) {
	b := NewBoard(3, 2)
	assert.Equal(t, 0, b.Place(1, Player1))
	assert.Equal(t, 1, b.Place(1, Player2))
	assert.Equal(t, 0, b.Place(0, Player2))

	p, ok := b.At(1, 1)
	assert.True(t, ok)
	assert.Equal(t, Player2, p)

	_, ok = b.At(2, 0)
	assert.False(t, ok, "empty column")
	_, ok = b.At(3, 0)
	assert.False(t, ok, "off the board")
	_, ok = b.At(-1, 0)
	assert.False(t, ok, "off the board")
}

func TestIsFull(t *testing.T) {
	b := NewBoard(2, 2)
	for _, col := range []int{0, 0, 1} {
		b.Place(col, Player1)
		assert.False(t, b.IsFull())
	}
	b.Place(1, Player2)
	assert.True(t, b.IsFull())
}

func TestCheckWinAllDirections(t *testing.T) {
	cases := []struct {
		name  string
		cells [][2]int
		last  [2]int
	}{
		{"horizontal", [][2]int{{0, 0}, {1, 0}, {3, 0}}, [2]int{2, 0}},
		{"vertical", [][2]int{{0, 0}, {0, 1}, {0, 2}}, [2]int{0, 3}},
		{"rising diagonal", [][2]int{{0, 0}, {1, 1}, {3, 3}}, [2]int{2, 2}},
		{"falling diagonal", [][2]int{{0, 3}, {1, 2}, {2, 1}}, [2]int{3, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := fill(4, 4, append(tc.cells, tc.last))
			assert.True(t, b.CheckWin(tc.last[0], tc.last[1], Player1, 4))
			assert.False(t, b.CheckWin(tc.last[0], tc.last[1], Player1, 5))
		})
	}
}

func TestCheckWinStopsAtOpponent(t *testing.T) {
	b := NewBoard(4, 1)
	b.Place(0, Player1)
	b.Place(1, Player2)
	b.Place(2, Player1)
	b.Place(3, Player1)
	assert.False(t, b.CheckWin(3, 0, Player1, 3))
	assert.True(t, b.CheckWin(3, 0, Player1, 2))
}

func TestCheckWinStopsAtColumnHeight(t *testing.T) {
	// Column 1 is only one high, so the rising diagonal from (0,0) through
	// (1,1) is broken even though (2,2) is Player1.
	b := fill(3, 3, [][2]int{{0, 0}, {2, 2}})
	b.Place(1, Player1)
	assert.False(t, b.CheckWin(0, 0, Player1, 3))
	assert.False(t, b.CheckWin(2, 2, Player1, 2))
}

func TestCheckWinIsLocalToPlacedPiece(t *testing.T) {
	b := NewBoard(5, 1)
	for col := 0; col < 3; col++ {
		b.Place(col, Player1)
	}
	b.Place(4, Player2)
	assert.True(t, b.CheckWin(1, 0, Player1, 3))
	assert.False(t, b.CheckWin(4, 0, Player2, 2))
}

func TestBoardString(t *testing.T) {
	b := NewBoard(3, 2)
	b.Place(0, Player1)
	b.Place(0, Player2)
	b.Place(2, Player1)
	assert.Equal(t, "2..\n1.1\n", b.String())
}

// fill builds a board whose listed cells hold Player1 and every cell
// beneath them holds Player2.
func fill(width, height int, cells [][2]int) *Board {
	top := make([]int, width)
	for i := range top {
		top[i] = -1
	}
	mine := make(map[[2]int]bool)
	for _, c := range cells {
		mine[c] = true
		if c[1] > top[c[0]] {
			top[c[0]] = c[1]
		}
	}
	b := NewBoard(width, height)
	for col := 0; col < width; col++ {
		for row := 0; row <= top[col]; row++ {
			p := Player2
			if mine[[2]int{col, row}] {
				p = Player1
			}
			b.Place(col, p)
		}
	}
	return b
}
