package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
	"github.com/custodia-labs/pnld-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/pnld-ingest/internal/logger"
)

// LoadPoller waits for catalog loads to reach a terminal state.
type LoadPoller struct {
	loads    driven.LoadService
	interval time.Duration
	attempts int
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewLoadPoller creates a poller. Non-positive values fall back to
// one second and sixty attempts.
func NewLoadPoller(loads driven.LoadService, interval time.Duration, attempts int) *LoadPoller {
	if interval <= 0 {
		interval = time.Second
	}
	if attempts <= 0 {
		attempts = 60
	}
	return &LoadPoller{loads: loads, interval: interval, attempts: attempts, sleep: sleepCtx}
}

// Wait polls until the load is terminal. A failed status call is logged and
// retried. Running out of attempts returns ErrLoadTimeout.
func (p *LoadPoller) Wait(ctx context.Context, stage, loadID string) (domain.LoadStatus, error) {
	for attempt := 1; attempt <= p.attempts; attempt++ {
		status, err := p.loads.LoadStatus(ctx, loadID)
		switch {
		case err != nil:
			logger.Warn("%s | Load %s status check %d/%d failed: %v", stage, loadID, attempt, p.attempts, err)
		case status.Terminal():
			logger.Info("%s | Load %s finished with %s", stage, loadID, status)
			return status, nil
		default:
			logger.Debug("%s | Load %s is %s (%d/%d)", stage, loadID, status, attempt, p.attempts)
		}

		if attempt == p.attempts {
			break
		}
		if err := p.sleep(ctx, p.interval); err != nil {
			return "", fmt.Errorf("poll load %s: %w", loadID, err)
		}
	}
	return "", fmt.Errorf("poll load %s after %d attempts: %w", loadID, p.attempts, domain.ErrLoadTimeout)
}

// Submit posts a load and waits for it. Statuses other than DONE and
// WARNING are reported as ErrLoadFailed.
func (p *LoadPoller) Submit(ctx context.Context, stage string, req domain.LoadRequest) (domain.LoadHandle, error) {
	handle, err := p.loads.SubmitLoad(ctx, req)
	if err != nil {
		return domain.LoadHandle{}, fmt.Errorf("submit %s: %w", req.JobName, err)
	}
	if handle.LoadID == "" {
		return handle, fmt.Errorf("submit %s: no load id: %w", req.JobName, domain.ErrLoadFailed)
	}

	status, err := p.Wait(ctx, stage, handle.LoadID)
	if err != nil {
		return handle, err
	}
	if !status.Succeeded() {
		return handle, fmt.Errorf("load %s ended with %s: %w", handle.LoadID, status, domain.ErrLoadFailed)
	}
	return handle, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
