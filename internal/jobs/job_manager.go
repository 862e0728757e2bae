package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"agromarket/internal/pkg/errs"
)

// JobManager coordinates the polling controllers of all services.
// Provides a unified interface to start, pause, resume and stop them.
type JobManager struct {
	controllers []*PollingController
	logger      *slog.Logger
}

// ControllerStatus is the externally visible state of one controller.
type ControllerStatus struct {
	Service  string        `json:"service"`
	State    State         `json:"state"`
	Interval time.Duration `json:"-"`
	Every    string        `json:"interval"`
}

func NewJobManager(logger *slog.Logger, controllers ...*PollingController) *JobManager {
	return &JobManager{
		controllers: controllers,
		logger:      logger.With("component", "JobManager"),
	}
}

// StartAll starts every controller in order.
// Returns an error if any controller fails to start; those already started are stopped again.
func (jm *JobManager) StartAll(ctx context.Context) error {
	for i, c := range jm.controllers {
		if err := c.Start(ctx); err != nil {
			for _, started := range jm.controllers[:i] {
				started.Stop(ctx)
			}
			return fmt.Errorf("failed to start %s polling: %w", c.Name(), err)
		}
	}
	return nil
}

func (jm *JobManager) PauseAll(ctx context.Context) error {
	var errList []error
	for _, c := range jm.controllers {
		errList = append(errList, c.Pause(ctx))
	}
	return errors.Join(errList...)
}

// ResumeAll resumes every controller. Each resume refreshes its service.
func (jm *JobManager) ResumeAll(ctx context.Context) error {
	var errList []error
	for _, c := range jm.controllers {
		errList = append(errList, c.Resume(ctx))
	}
	return errors.Join(errList...)
}

// StopAll stops all controllers gracefully.
func (jm *JobManager) StopAll(ctx context.Context) {
	for _, c := range jm.controllers {
		c.Stop(ctx)
	}
	jm.logger.InfoContext(ctx, "All polling stopped")
}

// Controller looks up a controller by service name.
func (jm *JobManager) Controller(service string) (*PollingController, error) {
	for _, c := range jm.controllers {
		if c.Name() == service {
			return c, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("service", service)
}

func (jm *JobManager) Status() []ControllerStatus {
	statuses := make([]ControllerStatus, 0, len(jm.controllers))
	for _, c := range jm.controllers {
		statuses = append(statuses, ControllerStatus{
			Service:  c.Name(),
			State:    c.State(),
			Interval: c.Interval(),
			Every:    c.Interval().String(),
		})
	}
	return statuses
}
