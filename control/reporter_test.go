package control

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiagnosticLine(t *testing.T) {
	s := Snapshot{Humidity: 55.0, PH: 6.0, PhosphorusPresent: true, PotassiumPresent: false}
	line := DiagnosticLine(s)
	assert.Equal(t, "Umidade:55.00,pH:6.00,Fosforo:100,Potassio:0", line)
	assert.Contains(t, line, "Fosforo:100")
	assert.Contains(t, line, "Potassio:0")
}

func TestDiagnosticLineNaN(t *testing.T) {
	s := Snapshot{Humidity: math.NaN(), PH: 14.0, PotassiumPresent: true}
	assert.Equal(t, "Umidade:nan,pH:14.00,Fosforo:0,Potassio:100", DiagnosticLine(s))
}

func TestDisplayLines(t *testing.T) {
	top, bottom := DisplayLines(Snapshot{Humidity: 62.35, PH: 6.5, PhosphorusPresent: false, PotassiumPresent: true})
	assert.Equal(t, "U:62.4% pH:6.5", top)
	assert.Equal(t, "P:NO K:OK", bottom)

	top, _ = DisplayLines(Snapshot{Humidity: math.NaN(), PH: 0})
	assert.Equal(t, "U:nan% pH:0.0", top)
}

func TestReportRedrawsDisplay(t *testing.T) {
	d := &recordingDisplay{}
	c := &recordingChannel{}
	r := NewReporter(d, c)

	r.Report(Snapshot{Humidity: 50.0, PH: 6.0, PhosphorusPresent: true, PotassiumPresent: true})

	assert.Equal(t, []string{
		"clear",
		"cursor 0,0",
		"print U:50.0% pH:6.0",
		"cursor 0,1",
		"print P:OK K:OK",
	}, d.ops)
	assert.Equal(t, "Umidade:50.00,pH:6.00,Fosforo:100,Potassio:100", c.last())
}

func TestReportDisplayFailure(t *testing.T) {
	d := &recordingDisplay{fail: true}
	c := &recordingChannel{}
	r := NewReporter(d, c)

	r.Report(Snapshot{Humidity: 50.0, PH: 6.0})

	// the serial line still goes out
	assert.Len(t, c.lines, 1)
	assert.Empty(t, d.ops)
}

func TestBanner(t *testing.T) {
	d := &recordingDisplay{}
	c := &recordingChannel{}
	NewReporter(d, c).Banner("Sistema de Irrigação - Milho", "Sistema Irrigacao")

	assert.Equal(t, "Sistema de Irrigação - Milho", c.String())
	assert.Equal(t, []string{"clear", "cursor 0,0", "print Sistema Irrigacao"}, d.ops)
}
