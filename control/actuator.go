package control

import (
	"fmt"

	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
)

// Actuator keeps no state of its own, the relay level read back is the
// only record of whether water is flowing.
type Actuator struct {
	relay RelayOut
}

func NewActuator(relay RelayOut) *Actuator {
	return &Actuator{relay: relay}
}

// Actuate drives the relay high to irrigate and low otherwise. The level is
// written on every call, only changes are logged.
func (a *Actuator) Actuate(irrigate bool) error {
	level := gpio.Low
	if irrigate {
		level = gpio.High
	}
	was := a.relay.Read()
	if err := a.relay.Out(level); err != nil {
		return fmt.Errorf("set irrigation relay %v: %w", level, err)
	}
	if was != level {
		if irrigate {
			logger.Info("Irrigation ON")
		} else {
			logger.Info("Irrigation OFF")
		}
	}
	return nil
}

// IsOn reports the level the relay currently holds.
func (a *Actuator) IsOn() bool {
	return a.relay.Read() == gpio.High
}
