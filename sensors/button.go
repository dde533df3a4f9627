package sensors

import (
	"fmt"

	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// Button is a nutrient acknowledge switch wired between the pin and ground.
// The internal pull-up holds the pin high until the switch closes.
type Button struct {
	Name    string
	gpioPin gpio.PinIn
}

func NewButton(name string, GPIOPin string) (*Button, error) {
	p := gpioreg.ByName(GPIOPin)
	if p == nil {
		return nil, fmt.Errorf("failed to find %v - %v pin", GPIOPin, name)
	}
	return newButton(name, p)
}

func newButton(name string, p gpio.PinIn) (*Button, error) {
	if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("%v button: %w", name, err)
	}
	logger.Infof("%s button on %s: %s", name, p, p.Function())
	return &Button{Name: name, gpioPin: p}, nil
}

// Read returns the electrical level, low while the button is pressed.
func (b *Button) Read() gpio.Level {
	return b.gpioPin.Read()
}

func (b *Button) Halt() error {
	return b.gpioPin.Halt()
}
