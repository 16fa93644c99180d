package aggregates

import (
	"time"
)

// Hooks receives write-path outcomes; the metrics registry implements it.
type Hooks interface {
	ObserveOperation(name, status string, dur time.Duration)
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, time.Duration) {}
