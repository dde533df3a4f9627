package control

import (
	"fmt"
	"math"
	"strconv"

	logger "github.com/sirupsen/logrus"
)

type Reporter struct {
	display Display
	channel Channel
}

// flusher is implemented by displays that buffer a frame, such as the console.
type flusher interface {
	Flush() error
}

func NewReporter(display Display, channel Channel) *Reporter {
	return &Reporter{display: display, channel: channel}
}

// Banner announces the controller on both outputs before the first cycle.
func (r *Reporter) Banner(serial, display string) {
	r.channel.Println(serial)
	r.draw(display)
}

// Report sends the diagnostic line and redraws the whole display.
func (r *Reporter) Report(s Snapshot) {
	line := DiagnosticLine(s)
	logger.Debugf("Diagnostic [%v]", line)
	r.channel.Println(line)

	top, bottom := DisplayLines(s)
	r.draw(top, bottom)
}

func (r *Reporter) draw(lines ...string) {
	if err := r.display.Clear(); err != nil {
		logger.Warnf("Display clear failed [%v]", err)
		return
	}
	for row, text := range lines {
		if err := r.display.SetCursor(0, row); err != nil {
			logger.Warnf("Display cursor failed [%v]", err)
			return
		}
		if err := r.display.Print(text); err != nil {
			logger.Warnf("Display print failed [%v]", err)
			return
		}
	}
	if f, ok := r.display.(flusher); ok {
		if err := f.Flush(); err != nil {
			logger.Warnf("Display flush failed [%v]", err)
		}
	}
}

// DiagnosticLine renders the per cycle serial record. Nutrients are encoded
// as integer percentages for the plotting tools that consume it.
func DiagnosticLine(s Snapshot) string {
	return fmt.Sprintf("Umidade:%s,pH:%s,Fosforo:%d,Potassio:%d",
		formatFloat(s.Humidity, 2),
		formatFloat(s.PH, 2),
		percent(s.PhosphorusPresent),
		percent(s.PotassiumPresent))
}

// DisplayLines renders the two rows of the status display.
func DisplayLines(s Snapshot) (string, string) {
	top := "U:" + formatFloat(s.Humidity, 1) + "% pH:" + formatFloat(s.PH, 1)
	bottom := "P:" + okNo(s.PhosphorusPresent) + " K:" + okNo(s.PotassiumPresent)
	return top, bottom
}

// formatFloat prints like a microcontroller serial port does: fixed decimals,
// lower case nan and inf.
func formatFloat(v float64, decimals int) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 0):
		return "inf"
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

func percent(present bool) int {
	if present {
		return 100
	}
	return 0
}

func okNo(present bool) string {
	if present {
		return "OK"
	}
	return "NO"
}
