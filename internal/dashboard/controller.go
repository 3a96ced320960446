// Package dashboard backs the monitor's enrollment-management screen.
package dashboard

import (
	"context"
	"sync"

	"github.com/TalelKhemiri/GoCodeMobile/internal/domain"
	"github.com/TalelKhemiri/GoCodeMobile/internal/errors"
)

type API interface {
	GetMonitorDashboard(ctx context.Context) ([]domain.Enrollment, error)
	ManageEnrollment(ctx context.Context, enrollmentID int64, action domain.EnrollmentAction) error
}

type Config struct {
	API API
}

type Controller struct {
	api API

	mu       sync.Mutex
	entries  []domain.Enrollment
	inflight map[int64]bool
}

func NewController(c Config) *Controller {
	return &Controller{
		api:      c.API,
		inflight: make(map[int64]bool),
	}
}

// Load replaces the whole enrollment list from the server. The list is only
// ever correct immediately after a full reload; nothing is mutated locally.
func (c *Controller) Load(ctx context.Context) error {
	entries, err := c.api.GetMonitorDashboard(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()

	return nil
}

// Enrollments returns the last loaded list.
func (c *Controller) Enrollments() []domain.Enrollment {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.entries
}

// HandleAction approves or rejects an enrollment, then reloads the full
// list. The caller must already have confirmed the action with the user.
// While a request for an enrollment is in flight, another submission for the
// same enrollment is refused, so a double tap cannot send the action twice.
func (c *Controller) HandleAction(ctx context.Context, enrollmentID int64, action domain.EnrollmentAction) error {
	if !action.Valid() {
		return errors.New(errors.CodeInvalidArgument,
			errors.WithMessagef("invalid enrollment action: %s", action))
	}

	c.mu.Lock()
	if c.inflight[enrollmentID] {
		c.mu.Unlock()
		return errors.New(errors.CodeFailedPrecondition,
			errors.WithMessagef("action already in progress for enrollment %d", enrollmentID))
	}
	c.inflight[enrollmentID] = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.inflight, enrollmentID)
		c.mu.Unlock()
	}()

	if err := c.api.ManageEnrollment(ctx, enrollmentID, action); err != nil {
		return err
	}

	return c.Load(ctx)
}
