// Package course drives lesson-by-lesson advancement through a course:
// load the lesson list, track the active lesson, mark it complete against
// the backend and move to the next one.
package course

import (
	"context"

	"github.com/TalelKhemiri/GoCodeMobile/internal/domain"
	"github.com/TalelKhemiri/GoCodeMobile/internal/errors"
	"github.com/TalelKhemiri/GoCodeMobile/internal/event"
)

type API interface {
	GetCourseDetails(ctx context.Context, id int64) (*domain.Course, error)
	MarkLessonComplete(ctx context.Context, lessonID int64) error
}

type Config struct {
	API      API
	EventBus *event.Bus
}

// Controller owns one course-player screen's state. It is not safe for
// concurrent use; all calls happen on the screen's flow of control.
type Controller struct {
	api API
	eb  *event.Bus

	courseID  int64
	course    *domain.Course
	activeID  int64
	hasActive bool
}

func NewController(c Config) *Controller {
	return &Controller{
		api: c.API,
		eb:  c.EventBus,
	}
}

// LoadCourse fetches the full course detail and resolves the lesson to
// activate: preferredLessonID when present in the fresh list, otherwise the
// previously active lesson re-resolved by id (so a refresh keeps the
// position), otherwise the first lesson. Pass preferredLessonID 0 for no
// preference. On failure nothing changes and the caller shows an error state.
func (c *Controller) LoadCourse(ctx context.Context, courseID, preferredLessonID int64) error {
	data, err := c.api.GetCourseDetails(ctx, courseID)
	if err != nil {
		return err
	}

	prevActiveID, hadActive := c.activeID, c.hasActive

	c.courseID = courseID
	c.course = data
	c.activeID, c.hasActive = 0, false

	switch {
	case preferredLessonID != 0 && c.contains(preferredLessonID):
		c.activeID, c.hasActive = preferredLessonID, true
	case hadActive && c.contains(prevActiveID):
		c.activeID, c.hasActive = prevActiveID, true
	case len(data.Lessons) > 0:
		c.activeID, c.hasActive = data.Lessons[0].ID, true
	}

	return nil
}

// Course returns the last loaded course, nil before the first load.
func (c *Controller) Course() *domain.Course { return c.course }

// ActiveLesson returns the currently active lesson, if any.
func (c *Controller) ActiveLesson() (domain.Lesson, bool) {
	if !c.hasActive {
		return domain.Lesson{}, false
	}

	for _, l := range c.course.Lessons {
		if l.ID == c.activeID {
			return l, true
		}
	}

	return domain.Lesson{}, false
}

// SelectLesson activates a lesson from the already loaded list. No network
// call; unknown ids are ignored.
func (c *Controller) SelectLesson(lessonID int64) {
	if c.course == nil || !c.contains(lessonID) {
		return
	}
	c.activeID, c.hasActive = lessonID, true
}

// CompleteAndAdvance marks the active lesson complete on the server, then
// advances. The save goes first: if it fails the active lesson is unchanged
// and the caller retries with a new explicit action. "Next" is positional in
// the list loaded before the refresh; after the last lesson the course
// reloads without preselection and completed is true.
func (c *Controller) CompleteAndAdvance(ctx context.Context) (completed bool, err error) {
	active, ok := c.ActiveLesson()
	if !ok {
		return false, errors.New(errors.CodeFailedPrecondition,
			errors.WithMessagef("no active lesson"))
	}

	if err := c.api.MarkLessonComplete(ctx, active.ID); err != nil {
		return false, err
	}

	idx := -1
	for i, l := range c.course.Lessons {
		if l.ID == active.ID {
			idx = i
			break
		}
	}

	if idx >= 0 && idx+1 < len(c.course.Lessons) {
		return false, c.LoadCourse(ctx, c.courseID, c.course.Lessons[idx+1].ID)
	}

	// Last lesson: the completion already reached the server, so the course
	// counts as finished even if the refresh below fails. The active pointer
	// is dropped first, the reload lands on the first lesson.
	c.activeID, c.hasActive = 0, false
	err = c.LoadCourse(ctx, c.courseID, 0)
	if c.eb != nil {
		c.eb.Publish(ctx, domain.EventCourseCompleted{CourseID: c.courseID})
	}

	return true, err
}

func (c *Controller) contains(lessonID int64) bool {
	for _, l := range c.course.Lessons {
		if l.ID == lessonID {
			return true
		}
	}
	return false
}
