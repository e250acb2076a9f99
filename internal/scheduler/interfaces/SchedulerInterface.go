package interfaces

import (
	"context"
	"time"
)

type SchedulerInterface interface {
	Init()
	Stop()
	RunSyncCycle(ctx context.Context)
}

type EvaluatorInterface interface {
	Evaluate(now time.Time) []string
	NextPrayer(now time.Time) (string, string, bool)
	Stop()
}
