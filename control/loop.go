package control

import (
	"context"
	"sync"
	"time"

	"github.com/gr-butler/cornfield/env"
	"github.com/jonboulle/clockwork"
	logger "github.com/sirupsen/logrus"
)

// Status is a copy of the outcome of the last cycle for readers outside the
// loop.
type Status struct {
	Time       time.Time
	Snapshot   Snapshot
	Irrigating bool // relay level after the cycle, not the rule's wish
	Rule       Rule
	Cycle      uint64
}

// Observer is told about every completed cycle. Observers run on the loop
// and must not block.
type Observer interface {
	Observe(st Status)
}

type Loop struct {
	sampler  *Sampler
	actuator *Actuator
	reporter *Reporter
	clock    clockwork.Clock
	gate     *Gate

	snapshot  Snapshot
	cycles    uint64
	observers []Observer

	lock   sync.Mutex
	status Status
}

func NewLoop(sampler *Sampler, actuator *Actuator, reporter *Reporter, clock clockwork.Clock) *Loop {
	return &Loop{
		sampler:  sampler,
		actuator: actuator,
		reporter: reporter,
		clock:    clock,
		gate:     NewGate(clock, env.SampleInterval),
	}
}

func (l *Loop) AddObserver(o Observer) {
	l.observers = append(l.observers, o)
}

// Cycle runs sample, evaluate, actuate and report once.
func (l *Loop) Cycle() {
	l.snapshot = l.sampler.Sample()
	rule := Classify(l.snapshot)
	if err := l.actuator.Actuate(rule.Irrigate()); err != nil {
		logger.Errorf("Failed to drive relay [%v]", err)
	}
	l.reporter.Report(l.snapshot)

	l.cycles++
	st := Status{
		Time:       l.clock.Now(),
		Snapshot:   l.snapshot,
		Irrigating: l.actuator.IsOn(),
		Rule:       rule,
		Cycle:      l.cycles,
	}
	if !l.snapshot.HumidityKnown() {
		logger.Warnf("Humidity unavailable in cycle %d", l.cycles)
	}
	if st.Irrigating != rule.Irrigate() {
		logger.Warnf("Cycle %d rule [%v] wanted irrigating [%v], relay reads [%v]", st.Cycle, rule, rule.Irrigate(), st.Irrigating)
	}
	logger.Debugf("Cycle %d rule [%v] irrigating [%v]", st.Cycle, rule, st.Irrigating)

	l.lock.Lock()
	l.status = st
	l.lock.Unlock()

	for _, o := range l.observers {
		o.Observe(st)
	}
}

// Run polls the gate until ctx is cancelled. A cycle that has started always
// completes.
func (l *Loop) Run(ctx context.Context) error {
	logger.Infof("Control loop started, sampling every %v", env.SampleInterval)
	ticker := l.clock.NewTicker(env.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("Control loop stopped")
			return ctx.Err()
		case <-ticker.Chan():
			if l.gate.Ready() {
				l.Cycle()
			}
		}
	}
}

// Status returns the last completed cycle, ok is false before the first one.
func (l *Loop) Status() (st Status, ok bool) {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.status, l.status.Cycle > 0
}
