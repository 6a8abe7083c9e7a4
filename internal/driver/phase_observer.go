package driver

import (
	"time"

	"fnqual/internal/observ"
)

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent describes a timing phase boundary of one file.
type PhaseEvent struct {
	File    string
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
}

// PhaseObserver receives phase events. It is called from worker goroutines.
type PhaseObserver func(PhaseEvent)

// phaseTimer feeds an observ.Timer and mirrors its boundaries to an observer.
type phaseTimer struct {
	file    string
	timer   *observ.Timer
	observe PhaseObserver
	started map[int]time.Time
}

func newPhaseTimer(file string, observe PhaseObserver) *phaseTimer {
	return &phaseTimer{
		file:    file,
		timer:   observ.NewTimer(),
		observe: observe,
		started: make(map[int]time.Time, 4),
	}
}

func (p *phaseTimer) Begin(name string) int {
	idx := p.timer.Begin(name)
	p.started[idx] = time.Now()
	if p.observe != nil {
		p.observe(PhaseEvent{File: p.file, Name: name, Status: PhaseStart})
	}
	return idx
}

func (p *phaseTimer) End(idx int, name, note string) {
	p.timer.End(idx, note)
	if p.observe != nil {
		p.observe(PhaseEvent{File: p.file, Name: name, Status: PhaseEnd, Elapsed: time.Since(p.started[idx])})
	}
}
