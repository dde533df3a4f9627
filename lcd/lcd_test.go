package lcd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/i2c/i2ctest"
)

// nibbles decodes the bytes latched on each falling edge of EN back into
// the command or data bytes the controller received.
func nibbles(ops []i2ctest.IO) []byte {
	var latched []byte
	for _, op := range ops {
		if len(op.W) == 3 && op.W[1]&en != 0 {
			latched = append(latched, op.W[0])
		}
	}
	return latched
}

func decode(latched []byte) (out []byte) {
	for i := 0; i+1 < len(latched); i += 2 {
		out = append(out, (latched[i]&0xf0)|(latched[i+1]>>4))
	}
	return out
}

func TestNewI2CInitSequence(t *testing.T) {
	bus := &i2ctest.Record{}
	_, err := NewI2C(bus, 0x27, 16, 2)
	require.NoError(t, err)

	for _, op := range bus.Ops {
		assert.Equal(t, uint16(0x27), op.Addr)
	}
	latched := nibbles(bus.Ops)
	require.Greater(t, len(latched), 4)
	// three 8 bit resets then the switch to 4 bit
	for i := 0; i < 3; i++ {
		assert.Equal(t, byte(fourBitInit), latched[i]&0xf0)
	}
	assert.Equal(t, byte(fourBitMode), latched[3]&0xf0)
	assert.Equal(t, []byte{
		cmdFunctionSet | twoLine,
		cmdDisplayCtrl | displayOn,
		cmdClear,
		cmdEntryMode | entryLeft,
	}, decode(latched[4:]))
}

func TestPrintAndCursor(t *testing.T) {
	bus := &i2ctest.Record{}
	l, err := NewI2C(bus, 0x27, 16, 2)
	require.NoError(t, err)
	bus.Ops = nil

	require.NoError(t, l.SetCursor(0, 1))
	require.NoError(t, l.Print("P:OK"))

	latched := nibbles(bus.Ops)
	assert.Equal(t, []byte{cmdSetDDRAM | 0x40, 'P', ':', 'O', 'K'}, decode(latched))
	// data bytes carry RS, the command does not
	assert.Zero(t, latched[0]&rs)
	assert.NotZero(t, latched[2]&rs)
	// backlight stays on
	assert.NotZero(t, latched[0]&backlight)
}

func TestPrintReplacesNonASCII(t *testing.T) {
	bus := &i2ctest.Record{}
	l, err := NewI2C(bus, 0x27, 16, 2)
	require.NoError(t, err)
	bus.Ops = nil

	require.NoError(t, l.Print("çã"))
	assert.Equal(t, []byte{'?', '?'}, decode(nibbles(bus.Ops)))
}

func TestNewI2CRejectsRows(t *testing.T) {
	_, err := NewI2C(&i2ctest.Record{}, 0x27, 16, 5)
	assert.Error(t, err)
}
