package job

import (
	"context"
	"log/slog"
	"time"
)

type Scanner interface {
	Scan(ctx context.Context) error
}

// DispatchJob runs a dispatch scan on every cron tick.
type DispatchJob struct {
	s       Scanner
	timeout time.Duration
}

// ScanTimeout returns a scan deadline that expires before the dispatch lock
// does, leaving two call timeouts for the last commit to land while the lock
// is still held.
func ScanTimeout(lockTTL, callTimeout time.Duration) time.Duration {
	if t := lockTTL - 2*callTimeout; t > 0 {
		return t
	}
	return lockTTL / 2
}

func NewDispatchJob(s Scanner, timeout time.Duration) *DispatchJob {
	return &DispatchJob{s: s, timeout: timeout}
}

func (j *DispatchJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if err := j.s.Scan(ctx); err != nil {
		slog.Error("dispatch scan failed", "error", err)
	}
}
