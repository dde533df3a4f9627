package control

import (
	"errors"
	"fmt"
	"strings"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

type fixedADC int

func (f fixedADC) Read() int {
	return int(f)
}

type fixedHygrometer float64

func (f fixedHygrometer) ReadHumidity() float64 {
	return float64(f)
}

// button returns an input pin held at the level a pressed (true) or
// released (false) active-low button produces.
func button(pressed bool) *gpiotest.Pin {
	l := gpio.High
	if pressed {
		l = gpio.Low
	}
	return &gpiotest.Pin{N: "BTN", L: l}
}

type recordingDisplay struct {
	ops  []string
	fail bool
}

func (d *recordingDisplay) Clear() error {
	if d.fail {
		return errors.New("bus error")
	}
	d.ops = append(d.ops, "clear")
	return nil
}

func (d *recordingDisplay) SetCursor(col, row int) error {
	d.ops = append(d.ops, fmt.Sprintf("cursor %d,%d", col, row))
	return nil
}

func (d *recordingDisplay) Print(s string) error {
	d.ops = append(d.ops, "print "+s)
	return nil
}

type recordingChannel struct {
	lines []string
}

func (c *recordingChannel) Println(line string) {
	c.lines = append(c.lines, line)
}

func (c *recordingChannel) last() string {
	if len(c.lines) == 0 {
		return ""
	}
	return c.lines[len(c.lines)-1]
}

func (c *recordingChannel) String() string {
	return strings.Join(c.lines, "\n")
}

type countingRelay struct {
	writes []gpio.Level
	level  gpio.Level
	err    error
}

func (r *countingRelay) Out(l gpio.Level) error {
	if r.err != nil {
		return r.err
	}
	r.writes = append(r.writes, l)
	r.level = l
	return nil
}

func (r *countingRelay) Read() gpio.Level {
	return r.level
}
