package lcd

import (
	"fmt"
	"io"
	"strings"
)

// Console mirrors the character display on a writer. Each Flush prints the
// current frame, one line per row.
type Console struct {
	w     io.Writer
	cols  int
	frame [][]rune
	col   int
	row   int
}

func NewConsole(w io.Writer, cols, rows int) *Console {
	c := &Console{w: w, cols: cols}
	c.frame = make([][]rune, rows)
	_ = c.Clear()
	return c
}

func (c *Console) Clear() error {
	for i := range c.frame {
		c.frame[i] = []rune(strings.Repeat(" ", c.cols))
	}
	c.col, c.row = 0, 0
	return nil
}

func (c *Console) SetCursor(col, row int) error {
	if row < 0 || row >= len(c.frame) || col < 0 || col >= c.cols {
		return fmt.Errorf("lcd: cursor %d,%d outside %dx%d", col, row, c.cols, len(c.frame))
	}
	c.col, c.row = col, row
	return nil
}

// Print clips at the right edge like the panel's visible window.
func (c *Console) Print(s string) error {
	for _, r := range s {
		if c.col >= c.cols {
			break
		}
		c.frame[c.row][c.col] = r
		c.col++
	}
	return nil
}

// Lines returns the frame with trailing blanks removed.
func (c *Console) Lines() []string {
	out := make([]string, len(c.frame))
	for i, row := range c.frame {
		out[i] = strings.TrimRight(string(row), " ")
	}
	return out
}

func (c *Console) Flush() error {
	for _, line := range c.Lines() {
		if _, err := fmt.Fprintf(c.w, "|%-*s|\n", c.cols, line); err != nil {
			return err
		}
	}
	return nil
}
