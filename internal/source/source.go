// Package source reads game files: a "X Y Z" config line followed by one
// 1-based column per line.
package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"connectz/internal/game"
)

// ParseConfig parses the first line of a game file.
func ParseConfig(line string) (game.Config, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return game.Config{}, fmt.Errorf("%w: config needs 3 values, got %d", game.ErrInvalidFile, len(fields))
	}
	var vals [3]int
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return game.Config{}, fmt.Errorf("%w: config value %q", game.ErrInvalidFile, f)
		}
		vals[i] = v
	}
	cfg := game.Config{Columns: vals[0], Rows: vals[1], WinLength: vals[2]}
	if err := cfg.Validate(); err != nil {
		return game.Config{}, err
	}
	return cfg, nil
}

// ParseMove parses a move line and returns its 0-based column.
func ParseMove(line string) (int, error) {
	s := strings.TrimSpace(line)
	if s == "" {
		return 0, fmt.Errorf("%w: empty move", game.ErrInvalidFile)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("%w: move %q", game.ErrInvalidFile, s)
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// All digits, so only out of range is possible; no board is that wide.
		return math.MaxInt, nil
	}
	return n - 1, nil
}

// Source yields the config and moves of one game file in order.
type Source struct {
	scanner *bufio.Scanner
	closer  io.Closer
	line    int
}

// MaxLineBytes caps one input line, surrounding whitespace included.
// Longer lines are InvalidFile.
const MaxLineBytes = 16 << 20

func NewSource(r io.Reader) *Source {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineBytes)
	scanner.Split(bufio.ScanLines)
	return &Source{scanner: scanner}
}

// Open opens path for reading. The caller must Close the Source.
func Open(path string) (*Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", game.ErrFileError, err)
	}
	s := NewSource(file)
	s.closer = file
	return s, nil
}

// Config reads and validates the first line. It must be called before Next.
func (s *Source) Config() (game.Config, error) {
	text, err := s.readLine()
	if errors.Is(err, io.EOF) {
		return game.Config{}, fmt.Errorf("%w: missing config line", game.ErrInvalidFile)
	}
	if err != nil {
		return game.Config{}, err
	}
	cfg, err := ParseConfig(text)
	if err != nil {
		return game.Config{}, fmt.Errorf("line %d: %w", s.line, err)
	}
	return cfg, nil
}

// Next returns the next move as a 0-based column, or io.EOF once the
// input is exhausted.
func (s *Source) Next() (int, error) {
	text, err := s.readLine()
	if err != nil {
		return 0, err
	}
	col, err := ParseMove(text)
	if err != nil {
		return 0, fmt.Errorf("line %d: %w", s.line, err)
	}
	return col, nil
}

// Line is the 1-based number of the last line read.
func (s *Source) Line() int { return s.line }

func (s *Source) readLine() (string, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", fmt.Errorf("%w: line %d: %v", game.ErrInvalidFile, s.line+1, err)
		}
		return "", io.EOF
	}
	s.line++
	return s.scanner.Text(), nil
}

func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}
