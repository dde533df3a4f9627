package control

import (
	"math"

	"github.com/gr-butler/cornfield/env"
	"periph.io/x/conn/v3/gpio"
)

/*
 * The control loop reads four field sensors, decides whether the corn needs
 * water, drives the irrigation relay and reports what it saw.
 */

// Snapshot is the latest reading of the field. The loop owns exactly one and
// overwrites it every cycle.
type Snapshot struct {
	PhosphorusPresent bool
	PotassiumPresent  bool
	PH                float64
	Humidity          float64 // %RH, NaN when the hygrometer read failed
}

// HumidityKnown reports whether the last hygrometer read succeeded.
func (s Snapshot) HumidityKnown() bool {
	return !math.IsNaN(s.Humidity)
}

// DigitalIn is an active-low input such as a nutrient button.
type DigitalIn interface {
	Read() gpio.Level
}

// AnalogIn returns a 12 bit conversion in [0, 4095].
type AnalogIn interface {
	Read() int
}

// Hygrometer returns relative humidity in percent, or NaN on a failed read.
type Hygrometer interface {
	ReadHumidity() float64
}

// RelayOut is satisfied by relay.Relay and by any periph gpio.PinIO. Read
// returns the level last applied to the coil.
type RelayOut interface {
	Out(l gpio.Level) error
	Read() gpio.Level
}

type Display interface {
	Clear() error
	SetCursor(col, row int) error
	Print(s string) error
}

// Channel receives the per cycle diagnostic line.
type Channel interface {
	Println(line string)
}

// ScalePH maps a raw 12 bit reading onto pH 0-14. The map is done in tenths
// of pH with integer truncation, so the result always has one decimal.
func ScalePH(raw int) float64 {
	if raw < 0 {
		raw = 0
	} else if raw > env.ADCMaxRaw {
		raw = env.ADCMaxRaw
	}
	return float64(raw*env.PHScaleMax/env.ADCMaxRaw) / 10.0
}
