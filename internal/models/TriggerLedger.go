package models

import (
	"sort"
	"sync"
)

// TriggerLedger remembers which prayers already fired for the current day.
type TriggerLedger struct {
	mu    sync.Mutex
	day   string
	fired map[string]struct{}
}

func NewTriggerLedger() *TriggerLedger {
	return &TriggerLedger{fired: make(map[string]struct{})}
}

// Rollover clears the ledger when day differs from the day it was last
// rolled to. It returns true when entries were dropped.
func (l *TriggerLedger) Rollover(day string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.day == day {
		return false
	}
	dropped := len(l.fired) > 0
	l.day = day
	l.fired = make(map[string]struct{})
	return dropped
}

// MarkIfAbsent records name and returns true only for the first call per
// name since the last clear. Names other than the five prayers are never
// recorded.
func (l *TriggerLedger) MarkIfAbsent(name string) bool {
	if !IsCanonicalPrayer(name) {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.fired[name]; ok {
		return false
	}
	l.fired[name] = struct{}{}
	return true
}

func (l *TriggerLedger) Has(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.fired[name]
	return ok
}

func (l *TriggerLedger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fired = make(map[string]struct{})
}

func (l *TriggerLedger) Fired() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.fired))
	for k := range l.fired {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
