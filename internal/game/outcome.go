package game

import (
	"errors"
	"strconv"
)

// Outcome is the single result of judging one move list. The numeric
// values are the codes printed by the CLI.
type Outcome int

const (
	Draw            Outcome = 0
	Player1Win      Outcome = 1
	Player2Win      Outcome = 2
	Incomplete      Outcome = 3
	IllegalContinue Outcome = 4
	IllegalRow      Outcome = 5
	IllegalColumn   Outcome = 6
	IllegalGame     Outcome = 7
	InvalidFile     Outcome = 8
	FileError       Outcome = 9
)

var outcomeNames = map[Outcome]string{
	Draw:            "draw",
	Player1Win:      "player1_win",
	Player2Win:      "player2_win",
	Incomplete:      "incomplete",
	IllegalContinue: "illegal_continue",
	IllegalRow:      "illegal_row",
	IllegalColumn:   "illegal_column",
	IllegalGame:     "illegal_game",
	InvalidFile:     "invalid_file",
	FileError:       "file_error",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return "outcome(" + strconv.Itoa(int(o)) + ")"
}

// Code is the numeric form of the outcome.
func (o Outcome) Code() int { return int(o) }

// Failed reports whether the outcome is a validation or legality failure
// rather than a finished or unfinished game.
func (o Outcome) Failed() bool { return o >= IllegalContinue }

func WinFor(p Player) Outcome {
	if p == Player2 {
		return Player2Win
	}
	return Player1Win
}

var (
	ErrIllegalContinue = errors.New("move after game concluded")
	ErrIllegalRow      = errors.New("column is full")
	ErrIllegalColumn   = errors.New("invalid column")
	ErrIllegalGame     = errors.New("illegal game configuration")
	ErrInvalidFile     = errors.New("invalid file")
	ErrFileError       = errors.New("file cannot be opened")
)

var errOutcomes = []struct {
	err     error
	outcome Outcome
}{
	{ErrIllegalContinue, IllegalContinue},
	{ErrIllegalRow, IllegalRow},
	{ErrIllegalColumn, IllegalColumn},
	{ErrIllegalGame, IllegalGame},
	{ErrInvalidFile, InvalidFile},
	{ErrFileError, FileError},
}

// OutcomeOf maps an error from this package's taxonomy, possibly wrapped,
// to its outcome. Errors outside the taxonomy are treated as InvalidFile.
func OutcomeOf(err error) Outcome {
	for _, eo := range errOutcomes {
		if errors.Is(err, eo.err) {
			return eo.outcome
		}
	}
	return InvalidFile
}
