// Package telemetry publishes the outcome of each control cycle to outside
// consumers. Publishing is one way, nothing is read back.
package telemetry

import (
	"time"

	"github.com/gr-butler/cornfield/control"
)

// Reading is the JSON document sent for a cycle. Humidity is left out when
// the hygrometer read failed.
type Reading struct {
	Station    string    `json:"station_id"`
	Timestamp  time.Time `json:"timestamp"`
	Humidity   *float64  `json:"humidity_pct,omitempty"`
	PH         float64   `json:"ph"`
	Phosphorus bool      `json:"phosphorus_present"`
	Potassium  bool      `json:"potassium_present"`
	Irrigating bool      `json:"irrigating"`
	Rule       string    `json:"rule"`
	Cycle      uint64    `json:"cycle"`
}

func NewReading(station string, st control.Status) Reading {
	r := Reading{
		Station:    station,
		Timestamp:  st.Time.UTC(),
		PH:         st.Snapshot.PH,
		Phosphorus: st.Snapshot.PhosphorusPresent,
		Potassium:  st.Snapshot.PotassiumPresent,
		Irrigating: st.Irrigating,
		Rule:       st.Rule.String(),
		Cycle:      st.Cycle,
	}
	if st.Snapshot.HumidityKnown() {
		h := st.Snapshot.Humidity
		r.Humidity = &h
	}
	return r
}
