package control

import "periph.io/x/conn/v3/gpio"

type Sampler struct {
	Phosphorus DigitalIn
	Potassium  DigitalIn
	PH         AnalogIn
	Humidity   Hygrometer
}

// Sample reads every input once. A failed humidity read is passed through as
// NaN, nothing is reported from here.
func (s *Sampler) Sample() Snapshot {
	return Snapshot{
		PhosphorusPresent: s.Phosphorus.Read() == gpio.Low,
		PotassiumPresent:  s.Potassium.Read() == gpio.Low,
		PH:                ScalePH(s.PH.Read()),
		Humidity:          s.Humidity.ReadHumidity(),
	}
}
