package sensors

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
)

type fakeEnv struct {
	rh  physic.RelativeHumidity
	err error
}

func (f *fakeEnv) Sense(e *physic.Env) error {
	if f.err != nil {
		return f.err
	}
	e.Humidity = f.rh
	return nil
}

func (f *fakeEnv) Halt() error { return nil }

type fakeDHT struct {
	rh    float64
	err   error
	tries []int
}

func (f *fakeDHT) ReadRetry(maxRetries int) (float64, float64, error) {
	f.tries = append(f.tries, maxRetries)
	if f.err != nil {
		return 0, 0, f.err
	}
	return f.rh, 21.5, nil
}

type fakeADC struct {
	v   physic.ElectricPotential
	err error
}

func (f *fakeADC) Read() (analog.Sample, error) {
	return analog.Sample{V: f.v}, f.err
}

func (f *fakeADC) Halt() error { return nil }

func TestHygrometer(t *testing.T) {
	h := &Hygrometer{dev: &fakeEnv{rh: 555 * physic.PercentRH / 10}}
	assert.InDelta(t, 55.5, h.ReadHumidity(), 1e-9)

	h = &Hygrometer{dev: &fakeEnv{err: errors.New("no ack")}}
	assert.True(t, math.IsNaN(h.ReadHumidity()))
}

func TestDHT22(t *testing.T) {
	dev := &fakeDHT{rh: 63.2}
	d := &DHT22{dev: dev, retries: 3}
	assert.InDelta(t, 63.2, d.ReadHumidity(), 1e-9)
	assert.Equal(t, []int{3}, dev.tries)
	assert.NoError(t, d.Halt())
}

func TestDHT22ReadFailureIsNaN(t *testing.T) {
	d := &DHT22{dev: &fakeDHT{err: errors.New("checksum error")}, retries: 3}
	assert.True(t, math.IsNaN(d.ReadHumidity()))
}

func TestHumiditySensorImplementations(t *testing.T) {
	var _ HumiditySensor = &Hygrometer{}
	var _ HumiditySensor = &DHT22{}
}

func TestInitSensorsRejectsUnknownHygrometer(t *testing.T) {
	s, err := InitSensors("", "sht31")
	assert.Nil(t, s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sht31")
}

func TestVoltsToCount(t *testing.T) {
	ref := 3300 * physic.MilliVolt
	assert.Equal(t, 0, VoltsToCount(0, ref))
	assert.Equal(t, 4095, VoltsToCount(ref, ref))
	assert.Equal(t, 2048, VoltsToCount(1650*physic.MilliVolt, ref))
	assert.Equal(t, 4095, VoltsToCount(5*physic.Volt, ref))
	assert.Equal(t, 0, VoltsToCount(-1*physic.Volt, ref))
	assert.Equal(t, 0, VoltsToCount(physic.Volt, 0))
}

func TestPHProbe(t *testing.T) {
	ref := 3300 * physic.MilliVolt
	p := &PHProbe{pin: &fakeADC{v: 1650 * physic.MilliVolt}, reference: ref}
	assert.Equal(t, 2048, p.Read())

	p = &PHProbe{pin: &fakeADC{err: errors.New("timeout")}, reference: ref}
	assert.Equal(t, 0, p.Read())
}

func TestButtonPullUp(t *testing.T) {
	pin := &gpiotest.Pin{N: "GPIO22", L: gpio.High}
	b, err := newButton("Phosphorus", pin)
	require.NoError(t, err)
	assert.Equal(t, gpio.PullUp, pin.Pull())
	assert.Equal(t, gpio.High, b.Read())

	pin.L = gpio.Low
	assert.Equal(t, gpio.Low, b.Read())
}

func TestNewButtonUnknownPin(t *testing.T) {
	_, err := NewButton("Potassium", "NO_SUCH_PIN")
	assert.Error(t, err)
}

type valve bool

func (v *valve) IsOn() bool { return bool(*v) }

func TestFieldDriesAndIrrigates(t *testing.T) {
	clock := clockwork.NewFakeClock()
	open := valve(false)
	f := NewField(clock, &open, 1)
	f.SetFaultRate(0)
	f.SetHumidity(50)

	clock.Advance(time.Minute)
	dry := f.ReadHumidity()
	assert.Less(t, dry, 50.0)

	open = true
	clock.Advance(time.Minute)
	wet := f.ReadHumidity()
	assert.Greater(t, wet, dry)
}

func TestFieldClampsAndFaults(t *testing.T) {
	clock := clockwork.NewFakeClock()
	open := valve(true)
	f := NewField(clock, &open, 2)
	f.SetFaultRate(0)

	clock.Advance(time.Hour)
	assert.Equal(t, 100.0, f.ReadHumidity())

	f.SetFaultRate(1)
	assert.True(t, math.IsNaN(f.ReadHumidity()))
}

func TestSimInputs(t *testing.T) {
	b := &SimButton{}
	assert.Equal(t, gpio.High, b.Read())
	b.Set(true)
	assert.Equal(t, gpio.Low, b.Read())

	p := &SimProbe{}
	p.Set(9000)
	assert.Equal(t, 4095, p.Read())
	p.Set(-3)
	assert.Equal(t, 0, p.Read())
}
