package lcd

import (
	"fmt"
	"time"

	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"
)

/*
 * HD44780 character display driven in 4 bit mode through a PCF8574 I2C
 * expander (the common "I2C backpack"). Expander bits:
 *
 *	P0 RS, P1 RW, P2 EN, P3 backlight, P4-P7 D4-D7
 */

const (
	rs        = 0x01
	en        = 0x04
	backlight = 0x08

	cmdClear       = 0x01
	cmdEntryMode   = 0x04
	cmdDisplayCtrl = 0x08
	cmdFunctionSet = 0x20
	cmdSetDDRAM    = 0x80

	entryLeft   = 0x02
	displayOn   = 0x04
	twoLine     = 0x08
	fourBitInit = 0x30
	fourBitMode = 0x20
)

var rowOffsets = []int{0x00, 0x40, 0x14, 0x54}

// Dev is a character LCD on an I2C backpack.
type Dev struct {
	d         *i2c.Dev
	cols      int
	rows      int
	backlight byte
}

// NewI2C resets the controller into 4 bit, two line mode with the backlight
// on and the screen cleared.
func NewI2C(bus i2c.Bus, addr uint16, cols, rows int) (*Dev, error) {
	if rows < 1 || rows > len(rowOffsets) {
		return nil, fmt.Errorf("lcd: unsupported row count %d", rows)
	}
	l := &Dev{
		d:         &i2c.Dev{Addr: addr, Bus: bus},
		cols:      cols,
		rows:      rows,
		backlight: backlight,
	}
	logger.Infof("Starting LCD %dx%d on I2C [%x]", cols, rows, addr)
	if err := l.init(); err != nil {
		return nil, fmt.Errorf("lcd: init: %w", err)
	}
	return l, nil
}

func (l *Dev) init() error {
	time.Sleep(50 * time.Millisecond)
	if err := l.expanderWrite(0); err != nil {
		return err
	}
	// datasheet figure 24, three attempts at 8 bit mode then switch to 4 bit
	for _, wait := range []time.Duration{4500 * time.Microsecond, 4500 * time.Microsecond, 150 * time.Microsecond} {
		if err := l.write4(fourBitInit); err != nil {
			return err
		}
		time.Sleep(wait)
	}
	if err := l.write4(fourBitMode); err != nil {
		return err
	}
	if err := l.command(cmdFunctionSet | twoLine); err != nil {
		return err
	}
	if err := l.command(cmdDisplayCtrl | displayOn); err != nil {
		return err
	}
	if err := l.Clear(); err != nil {
		return err
	}
	return l.command(cmdEntryMode | entryLeft)
}

func (l *Dev) Clear() error {
	if err := l.command(cmdClear); err != nil {
		return err
	}
	time.Sleep(2 * time.Millisecond)
	return nil
}

// SetCursor moves to col, row (both zero based). Out of range values are
// clamped to the panel.
func (l *Dev) SetCursor(col, row int) error {
	if row >= l.rows {
		row = l.rows - 1
	}
	if row < 0 {
		row = 0
	}
	if col >= l.cols {
		col = l.cols - 1
	}
	if col < 0 {
		col = 0
	}
	return l.command(byte(cmdSetDDRAM | (col + rowOffsets[row])))
}

// Print writes s from the cursor. The HD44780 ROM only holds ASCII, other
// runes are shown as '?'.
func (l *Dev) Print(s string) error {
	for _, c := range s {
		b := byte(c)
		if c > 0x7e || c < 0x20 {
			b = '?'
		}
		if err := l.send(b, rs); err != nil {
			return err
		}
	}
	return nil
}

// Halt blanks the panel and turns the backlight off.
func (l *Dev) Halt() error {
	l.backlight = 0
	if err := l.Clear(); err != nil {
		return err
	}
	return l.command(cmdDisplayCtrl)
}

func (l *Dev) String() string {
	return fmt.Sprintf("lcd(%s)", l.d)
}

func (l *Dev) command(b byte) error {
	return l.send(b, 0)
}

func (l *Dev) send(b byte, mode byte) error {
	if err := l.write4((b & 0xf0) | mode); err != nil {
		return err
	}
	return l.write4(((b << 4) & 0xf0) | mode)
}

// write4 latches the high nibble of v by pulsing EN in one transaction.
func (l *Dev) write4(v byte) error {
	v |= l.backlight
	if err := l.d.Tx([]byte{v, v | en, v &^ en}, nil); err != nil {
		return err
	}
	time.Sleep(50 * time.Microsecond)
	return nil
}

func (l *Dev) expanderWrite(v byte) error {
	return l.d.Tx([]byte{v | l.backlight}, nil)
}
