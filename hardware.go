package main

import (
	"errors"
	"os"
	"time"

	"github.com/gr-butler/cornfield/control"
	"github.com/gr-butler/cornfield/env"
	"github.com/gr-butler/cornfield/lcd"
	"github.com/gr-butler/cornfield/relay"
	"github.com/gr-butler/cornfield/sensors"
	"github.com/gr-butler/cornfield/serialout"
	"github.com/jonboulle/clockwork"
	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

// hardware is everything the control loop touches, real or simulated.
type hardware struct {
	sampler *control.Sampler
	relay   *relay.Relay
	display control.Display
	channel *serialout.Channel
	closers []func() error
}

func openHardware(args env.Args, clock clockwork.Clock) (*hardware, error) {
	hw := &hardware{}
	ok := false
	defer func() {
		if !ok {
			hw.Close()
		}
	}()

	if err := hw.openChannel(*args.Serial); err != nil {
		return nil, err
	}

	if *args.Test {
		valve, err := relay.New("Irrigation (sim)", &gpiotest.Pin{N: "SIM_" + env.IrrigationRelayOut})
		if err != nil {
			return nil, err
		}
		hw.relay = valve
		field := sensors.NewField(clock, valve, time.Now().UnixNano())
		hw.sampler = &control.Sampler{
			Phosphorus: field.Phosphorus,
			Potassium:  field.Potassium,
			PH:         field.PH,
			Humidity:   field,
		}
		hw.display = lcd.NewConsole(os.Stdout, env.LCDColumns, env.LCDRows)
		ok = true
		return hw, nil
	}

	s, err := sensors.InitSensors("", *args.Humidity)
	if err != nil {
		return nil, err
	}
	hw.closers = append(hw.closers, s.Close)
	hw.sampler = &control.Sampler{
		Phosphorus: s.Phosphorus,
		Potassium:  s.Potassium,
		PH:         s.PH,
		Humidity:   s.Humidity,
	}

	valve, err := relay.NewRelay("Irrigation", env.IrrigationRelayOut)
	if err != nil {
		return nil, err
	}
	hw.relay = valve
	hw.closers = append(hw.closers, valve.Halt)

	display, err := lcd.NewI2C(s.Bus, env.LCDBackpackAddr, env.LCDColumns, env.LCDRows)
	if err != nil {
		// the controller can run blind
		logger.Errorf("LCD not available, mirroring to console [%v]", err)
		hw.display = lcd.NewConsole(os.Stdout, env.LCDColumns, env.LCDRows)
	} else {
		hw.display = display
		hw.closers = append(hw.closers, display.Halt)
	}
	ok = true
	return hw, nil
}

func (hw *hardware) openChannel(port string) error {
	if port == "" {
		port = os.Getenv("SERIAL_PORT")
	}
	if port == "" {
		hw.channel = serialout.NewWriter("stdout", os.Stdout)
		return nil
	}
	ch, err := serialout.Open(port, env.SerialBaudRate)
	if err != nil {
		return err
	}
	hw.channel = ch
	hw.closers = append(hw.closers, ch.Close)
	return nil
}

// Close releases in reverse order of opening, so the relay is parked before
// the buses go away.
func (hw *hardware) Close() {
	var errs []error
	for i := len(hw.closers) - 1; i >= 0; i-- {
		errs = append(errs, hw.closers[i]())
	}
	hw.closers = nil
	if err := errors.Join(errs...); err != nil {
		logger.Warnf("Hardware shutdown [%v]", err)
	}
}
