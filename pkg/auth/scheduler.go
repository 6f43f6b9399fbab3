package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/platinummonkey/backoffice/pkg/observability"
)

// RefreshScheduler renews the access token on a cron schedule so an
// interactive session does not lapse mid-shift. Runs are skipped while the
// session holds no refresh token.
type RefreshScheduler struct {
	manager *Manager
	cron    *cron.Cron
	logger  *observability.Logger
}

// NewRefreshScheduler creates a scheduler running schedule (cron spec,
// e.g. "@every 10m") against the manager.
func NewRefreshScheduler(manager *Manager, schedule string, logger *observability.Logger) (*RefreshScheduler, error) {
	s := &RefreshScheduler{
		manager: manager,
		cron:    cron.New(),
		logger:  logger,
	}

	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start begins scheduled refreshes
func (s *RefreshScheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running job to finish
func (s *RefreshScheduler) Stop(ctx context.Context) error {
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *RefreshScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.manager.Refresh(ctx)
	switch {
	case err == nil:
		s.logger.Debug("Scheduled token refresh succeeded")
	case errors.Is(err, ErrNoRefreshToken):
		// Not logged in; nothing to renew.
	default:
		s.logger.WithError(err).Warn("Scheduled token refresh failed")
	}
}
