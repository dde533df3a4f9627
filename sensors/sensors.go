package sensors

import (
	"errors"
	"fmt"

	"github.com/gr-butler/cornfield/env"
	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

/*
 * Sensors opens the field sensors on the host buses. Each device keeps its
 * own conversion to the units the control loop works in.
 */

type Sensors struct {
	Phosphorus *Button
	Potassium  *Button
	PH         *PHProbe
	Humidity   HumiditySensor
	Bus        i2c.BusCloser
}

// HumiditySensor is either the BME280 on the I2C bus or the single wire DHT22.
type HumiditySensor interface {
	ReadHumidity() float64
	Halt() error
}

// InitSensors initialises the host drivers and opens every sensor. busName
// may be empty for the default I2C bus, hygrometer is one of
// env.HygrometerDHT22 or env.HygrometerBME280. On error anything already
// opened is released.
func InitSensors(busName string, hygrometer string) (*Sensors, error) {
	if hygrometer != env.HygrometerDHT22 && hygrometer != env.HygrometerBME280 {
		return nil, fmt.Errorf("unknown hygrometer %q", hygrometer)
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to init host drivers: %w", err)
	}

	s := &Sensors{}
	if err := s.open(busName, hygrometer); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Sensors) open(busName string, hygrometer string) error {
	bus, err := i2creg.Open(busName)
	if err != nil {
		return fmt.Errorf("failed to open I²C: %w", err)
	}
	s.Bus = bus
	logger.Infof("Opened I²C bus %v", bus)

	if s.Phosphorus, err = NewButton("Phosphorus", env.PhosphorusButtonIn); err != nil {
		return err
	}
	if s.Potassium, err = NewButton("Potassium", env.PotassiumButtonIn); err != nil {
		return err
	}
	if s.PH, err = NewPHProbe(bus, env.PHChannel); err != nil {
		return fmt.Errorf("failed to initialize ADS1115: %w", err)
	}
	switch hygrometer {
	case env.HygrometerBME280:
		h, err := NewHygrometer(bus, env.BME280Addr)
		if err != nil {
			return fmt.Errorf("failed to initialize bme280: %w", err)
		}
		s.Humidity = h
	case env.HygrometerDHT22:
		h, err := NewDHT22(env.DHTPin)
		if err != nil {
			return fmt.Errorf("failed to initialize dht22: %w", err)
		}
		s.Humidity = h
	}
	return nil
}

// Close halts the devices and releases the bus.
func (s *Sensors) Close() error {
	var errs []error
	if s.Humidity != nil {
		errs = append(errs, s.Humidity.Halt())
	}
	if s.PH != nil {
		errs = append(errs, s.PH.Halt())
	}
	if s.Phosphorus != nil {
		errs = append(errs, s.Phosphorus.Halt())
	}
	if s.Potassium != nil {
		errs = append(errs, s.Potassium.Halt())
	}
	if s.Bus != nil {
		errs = append(errs, s.Bus.Close())
	}
	return errors.Join(errs...)
}
