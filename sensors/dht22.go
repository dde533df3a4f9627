package sensors

import (
	"math"

	"github.com/MichaelS11/go-dht"
	"github.com/gr-butler/cornfield/env"
	logger "github.com/sirupsen/logrus"
)

// dhtReader is the part of dht.DHT the hygrometer uses.
type dhtReader interface {
	ReadRetry(maxRetries int) (humidity float64, temperature float64, err error)
}

// DHT22 reads relative humidity from a DHT22 on a single GPIO line.
type DHT22 struct {
	dev     dhtReader
	retries int
}

func NewDHT22(pin string) (*DHT22, error) {
	logger.Infof("Starting DHT22 hygrometer on [%v]", pin)
	if err := dht.HostInit(); err != nil {
		return nil, err
	}
	d, err := dht.NewDHT(pin, dht.Celsius, "dht22")
	if err != nil {
		return nil, err
	}
	return &DHT22{dev: d, retries: env.DHTRetries}, nil
}

// ReadHumidity returns %RH, or NaN once every retry has failed.
func (d *DHT22) ReadHumidity() float64 {
	humidity, _, err := d.dev.ReadRetry(d.retries)
	if err != nil {
		logger.Warnf("DHT22 read failed [%v]", err)
		return math.NaN()
	}
	return humidity
}

// Halt is a no-op, the driver holds no resources between reads.
func (d *DHT22) Halt() error {
	return nil
}
