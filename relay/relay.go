package relay

import (
	"fmt"
	"sync"

	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// Relay drives the irrigation valve relay. High energises the coil.
type Relay struct {
	Name    string
	lock    *sync.Mutex
	on      bool
	gpioPin gpio.PinOut
}

// NewRelay looks the pin up by name and parks it low so the valve starts
// closed.
func NewRelay(name string, GPIOPin string) (*Relay, error) {
	logger.Infof("Creating new relay on pin [%v] called [%v]", GPIOPin, name)
	p := gpioreg.ByName(GPIOPin)
	if p == nil {
		return nil, fmt.Errorf("failed to find %v pin", GPIOPin)
	}
	return New(name, p)
}

// New wraps an already resolved pin.
func New(name string, pin gpio.PinOut) (*Relay, error) {
	r := &Relay{
		Name:    name,
		lock:    &sync.Mutex{},
		gpioPin: pin,
	}
	if err := pin.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("relay %v: %w", name, err)
	}
	return r, nil
}

// Out sets the coil level.
func (r *Relay) Out(l gpio.Level) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if err := r.gpioPin.Out(l); err != nil {
		return err
	}
	r.on = l == gpio.High
	return nil
}

func (r *Relay) On() error {
	return r.Out(gpio.High)
}

func (r *Relay) Off() error {
	return r.Out(gpio.Low)
}

func (r *Relay) IsOn() bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.on
}

// Read returns the level last written successfully.
func (r *Relay) Read() gpio.Level {
	if r.IsOn() {
		return gpio.High
	}
	return gpio.Low
}

// Halt opens the valve circuit, used on shutdown.
func (r *Relay) Halt() error {
	logger.Infof("Releasing relay [%v]", r.Name)
	return r.Off()
}
