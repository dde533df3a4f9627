package sensors

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/gr-butler/cornfield/env"
	"github.com/jonboulle/clockwork"
	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
)

const (
	// soil moisture change in %RH per minute
	simDryingPerMin    = 4.0
	simIrrigatePerMin  = 12.0
	simNutrientFlipPct = 0.02
	simFaultPct        = 0.02
)

// Valve reports whether irrigation water is flowing, relay.Relay satisfies it.
type Valve interface {
	IsOn() bool
}

// Field simulates a corn plot for running the controller without hardware.
// Soil humidity falls while the valve is closed and rises while it is open,
// the nutrient buttons and the pH drift at random.
type Field struct {
	lock      sync.Mutex
	clock     clockwork.Clock
	rnd       *rand.Rand
	valve     Valve
	last      time.Time
	humidity  float64
	faultRate float64

	Phosphorus *SimButton
	Potassium  *SimButton
	PH         *SimProbe
}

func NewField(clock clockwork.Clock, valve Valve, seed int64) *Field {
	f := &Field{
		clock:      clock,
		rnd:        rand.New(rand.NewSource(seed)),
		valve:      valve,
		last:       clock.Now(),
		humidity:   55,
		faultRate:  simFaultPct,
		Phosphorus: &SimButton{pressed: true},
		Potassium:  &SimButton{pressed: true},
	}
	f.PH = &SimProbe{count: 1755} // pH 6.0
	logger.Info("Using simulated field sensors")
	return f
}

// SetFaultRate sets the probability of a failed humidity read.
func (f *Field) SetFaultRate(p float64) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.faultRate = p
}

// SetHumidity forces the soil humidity.
func (f *Field) SetHumidity(h float64) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.humidity = h
}

// ReadHumidity advances the soil model to now and reads it.
func (f *Field) ReadHumidity() float64 {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.step()
	if f.rnd.Float64() < f.faultRate {
		return math.NaN()
	}
	return math.Round(f.humidity*10) / 10
}

func (f *Field) step() {
	now := f.clock.Now()
	minutes := now.Sub(f.last).Minutes()
	f.last = now
	if minutes <= 0 {
		return
	}
	rate := -simDryingPerMin
	if f.valve != nil && f.valve.IsOn() {
		rate = simIrrigatePerMin
	}
	f.humidity += rate*minutes + f.rnd.NormFloat64()*0.2
	f.humidity = math.Max(0, math.Min(100, f.humidity))

	for _, b := range []*SimButton{f.Phosphorus, f.Potassium} {
		if f.rnd.Float64() < simNutrientFlipPct {
			b.Set(!b.Pressed())
		}
	}
	f.PH.drift(int(math.Round(f.rnd.NormFloat64() * 15)))
}

// SimButton is an active-low input that can be pressed from code.
type SimButton struct {
	lock    sync.Mutex
	pressed bool
}

func (b *SimButton) Read() gpio.Level {
	if b.Pressed() {
		return gpio.Low
	}
	return gpio.High
}

func (b *SimButton) Pressed() bool {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.pressed
}

func (b *SimButton) Set(pressed bool) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.pressed = pressed
}

// SimProbe is the simulated 12 bit pH proxy.
type SimProbe struct {
	lock  sync.Mutex
	count int
}

func (p *SimProbe) Read() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.count
}

// Set forces the raw count, clamped to the ADC range.
func (p *SimProbe) Set(count int) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.count = clampCount(count)
}

func (p *SimProbe) drift(delta int) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.count = clampCount(p.count + delta)
}

func clampCount(c int) int {
	if c < 0 {
		return 0
	}
	if c > env.ADCMaxRaw {
		return env.ADCMaxRaw
	}
	return c
}
