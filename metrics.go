package main

import (
	"time"

	"github.com/gr-butler/cornfield/control"
	"github.com/prometheus/client_golang/prometheus"

	logger "github.com/sirupsen/logrus"
)

var Prom_humidity = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "soil_relative_humidity",
		Help: "Soil relative humidity %, NaN when the sensor failed",
	},
)

var Prom_ph = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "soil_ph",
		Help: "Soil pH estimated from the LDR probe",
	},
)

var Prom_phosphorus = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "phosphorus_present",
		Help: "1 when the phosphorus button is pressed",
	},
)

var Prom_potassium = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "potassium_present",
		Help: "1 when the potassium button is pressed",
	},
)

var Prom_irrigating = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "irrigation_relay_on",
		Help: "1 while the irrigation relay is energised",
	},
)

var Prom_cycles = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "control_cycles_total",
		Help: "Completed control cycles by deciding rule",
	},
	[]string{"rule"},
)

var Prom_humidityFaults = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "humidity_read_failures_total",
		Help: "Cycles where the humidity sensor returned no value",
	},
)

// called by prometheus
func init() {
	logger.Infof("%v: Initialize prometheus...", time.Now().Format(time.RFC822))
	prometheus.MustRegister(
		Prom_humidity,
		Prom_ph,
		Prom_phosphorus,
		Prom_potassium,
		Prom_irrigating,
		Prom_cycles,
		Prom_humidityFaults)
}

// promObserver copies every cycle into the gauges.
type promObserver struct{}

func (promObserver) Observe(st control.Status) {
	Prom_humidity.Set(st.Snapshot.Humidity)
	Prom_ph.Set(st.Snapshot.PH)
	Prom_phosphorus.Set(boolGauge(st.Snapshot.PhosphorusPresent))
	Prom_potassium.Set(boolGauge(st.Snapshot.PotassiumPresent))
	Prom_irrigating.Set(boolGauge(st.Irrigating))
	Prom_cycles.WithLabelValues(st.Rule.String()).Inc()
	if !st.Snapshot.HumidityKnown() {
		Prom_humidityFaults.Inc()
	}
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
