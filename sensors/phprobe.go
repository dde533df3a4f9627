package sensors

import (
	"math"

	"github.com/gr-butler/cornfield/env"
	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
)

// adcPin is the part of ads1x15.PinADC the probe uses.
type adcPin interface {
	Read() (analog.Sample, error)
	Halt() error
}

// PHProbe samples the LDR divider used as a pH proxy. The ADS1115 reports
// volts, these are rescaled to the 12 bit count the pH map expects.
type PHProbe struct {
	pin       adcPin
	reference physic.ElectricPotential
}

func NewPHProbe(bus i2c.Bus, channel int) (*PHProbe, error) {
	logger.Infof("Starting pH probe ADC I2C [%x] channel %d", ads1x15.DefaultOpts.I2cAddress, channel)
	adc, err := ads1x15.NewADS1115(bus, &ads1x15.DefaultOpts)
	if err != nil {
		return nil, err
	}
	ref := physic.ElectricPotential(env.ADCReferenceV * float64(physic.Volt))
	pin, err := adc.PinForChannel(ads1x15.Channel(channel), ref, 1*physic.Hertz, ads1x15.SaveEnergy)
	if err != nil {
		return nil, err
	}
	return &PHProbe{pin: pin, reference: ref}, nil
}

// Read returns a count in [0, 4095]. A failed conversion reads as 0.
func (p *PHProbe) Read() int {
	sample, err := p.pin.Read()
	if err != nil {
		logger.Warnf("Error reading pH probe [%v]", err)
		return 0
	}
	return VoltsToCount(sample.V, p.reference)
}

func (p *PHProbe) Halt() error {
	return p.pin.Halt()
}

// VoltsToCount scales v against the reference onto the 12 bit range.
func VoltsToCount(v, reference physic.ElectricPotential) int {
	if reference <= 0 {
		return 0
	}
	c := int(math.Round(float64(v) / float64(reference) * env.ADCMaxRaw))
	switch {
	case c < 0:
		return 0
	case c > env.ADCMaxRaw:
		return env.ADCMaxRaw
	}
	return c
}
