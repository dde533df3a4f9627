package sensors

import (
	"math"

	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"
)

// envSensor is the part of bmxx80.Dev the hygrometer uses.
type envSensor interface {
	Sense(e *physic.Env) error
	Halt() error
}

// Hygrometer reads relative humidity from a BME280.
type Hygrometer struct {
	dev envSensor
}

func NewHygrometer(bus i2c.Bus, addr uint16) (*Hygrometer, error) {
	logger.Infof("Starting BME280 hygrometer [%x]", addr)
	bme, err := bmxx80.NewI2C(bus, addr, &bmxx80.DefaultOpts)
	if err != nil {
		return nil, err
	}
	return &Hygrometer{dev: bme}, nil
}

// ReadHumidity returns %RH, or NaN if the sensor did not answer.
func (h *Hygrometer) ReadHumidity() float64 {
	em := physic.Env{}
	if err := h.dev.Sense(&em); err != nil {
		logger.Warnf("BME280 read failed [%v]", err)
		return math.NaN()
	}
	return float64(em.Humidity) / float64(physic.PercentRH)
}

func (h *Hygrometer) Halt() error {
	return h.dev.Halt()
}
