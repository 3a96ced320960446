package course_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TalelKhemiri/GoCodeMobile/internal/course"
	"github.com/TalelKhemiri/GoCodeMobile/internal/domain"
	"github.com/TalelKhemiri/GoCodeMobile/internal/errors"
	"github.com/TalelKhemiri/GoCodeMobile/internal/event"
)

// fakeBackend serves course details like the server would: every load
// returns a fresh copy reflecting the completions recorded so far.
type fakeBackend struct {
	course    domain.Course
	detailErr error
	markErr   error

	marked []int64
}

func (f *fakeBackend) GetCourseDetails(_ context.Context, id int64) (*domain.Course, error) {
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	if id != f.course.ID {
		return nil, errors.New(errors.CodeNotFound, errors.WithMessagef("Failed to load course content"))
	}

	c := f.course
	c.Lessons = make([]domain.Lesson, len(f.course.Lessons))
	copy(c.Lessons, f.course.Lessons)
	return &c, nil
}

func (f *fakeBackend) MarkLessonComplete(_ context.Context, lessonID int64) error {
	if f.markErr != nil {
		return f.markErr
	}
	for i := range f.course.Lessons {
		if f.course.Lessons[i].ID == lessonID {
			f.course.Lessons[i].IsCompleted = true
		}
	}
	f.marked = append(f.marked, lessonID)
	return nil
}

func threeLessons() domain.Course {
	return domain.Course{
		ID:    1,
		Title: "Code de la route",
		Lessons: []domain.Lesson{
			{ID: 10, Title: "L1"},
			{ID: 20, Title: "L2"},
			{ID: 30, Title: "L3"},
		},
	}
}

func makeController(backend *fakeBackend, eb *event.Bus) *course.Controller {
	return course.NewController(course.Config{
		API:      backend,
		EventBus: eb,
	})
}

func activeID(t *testing.T, c *course.Controller) int64 {
	t.Helper()
	l, ok := c.ActiveLesson()
	require.True(t, ok, "expected an active lesson")
	return l.ID
}

func TestController_LoadCourse(t *testing.T) {
	tests := map[string]struct {
		arrange func(t *testing.T, c *course.Controller)
		preferr int64
		want    int64
	}{
		"first lesson without preselection": {
			arrange: func(t *testing.T, c *course.Controller) {},
			want:    10,
		},
		"preferred lesson wins": {
			arrange: func(t *testing.T, c *course.Controller) {},
			preferr: 20,
			want:    20,
		},
		"unknown preferred falls back to previous active": {
			arrange: func(t *testing.T, c *course.Controller) {
				require.NoError(t, c.LoadCourse(context.Background(), 1, 30))
			},
			preferr: 999,
			want:    30,
		},
		"unknown preferred without history falls back to first": {
			arrange: func(t *testing.T, c *course.Controller) {},
			preferr: 999,
			want:    10,
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			backend := &fakeBackend{course: threeLessons()}
			c := makeController(backend, event.NewBus())
			tt.arrange(t, c)

			require.NoError(t, c.LoadCourse(context.Background(), 1, tt.preferr))
			require.Equal(t, tt.want, activeID(t, c))
		})
	}
}

func TestController_LoadCourse_FailureKeepsState(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{course: threeLessons()}
	c := makeController(backend, event.NewBus())
	require.NoError(t, c.LoadCourse(context.Background(), 1, 20))

	backend.detailErr = errors.New(errors.CodeUnavailable, errors.WithMessagef("Failed to load course content"))
	err := c.LoadCourse(context.Background(), 1, 0)
	require.Error(t, err)
	require.Equal(t, int64(20), activeID(t, c), "a failed refresh must not move the active lesson")
}

func TestController_CompleteAndAdvance(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{course: threeLessons()}
	c := makeController(backend, event.NewBus())
	require.NoError(t, c.LoadCourse(context.Background(), 1, 0))

	completed, err := c.CompleteAndAdvance(context.Background())
	require.NoError(t, err)
	require.False(t, completed)
	require.Equal(t, int64(20), activeID(t, c), "advance is positional")
	require.Equal(t, []int64{10}, backend.marked)

	require.True(t, c.Course().Lessons[0].IsCompleted, "refresh should reflect the server-side completion")
}

func TestController_CompleteAndAdvance_LastLesson(t *testing.T) {
	t.Parallel()

	eb := event.NewBus()

	var mu sync.Mutex
	var completedCourses []int64
	eb.Subscribe(domain.EventNameCourseCompleted, func(ctx context.Context, e event.Event) error {
		mu.Lock()
		completedCourses = append(completedCourses, e.(domain.EventCourseCompleted).CourseID)
		mu.Unlock()
		return nil
	})

	backend := &fakeBackend{course: threeLessons()}
	c := makeController(backend, eb)
	require.NoError(t, c.LoadCourse(context.Background(), 1, 30))

	completed, err := c.CompleteAndAdvance(context.Background())
	require.NoError(t, err)
	require.True(t, completed)

	// No preselection on the final reload: the pointer lands on the first
	// lesson again.
	require.Equal(t, int64(10), activeID(t, c))
	require.Equal(t, []int64{30}, backend.marked)

	eb.Stop()
	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []int64{1}, completedCourses)
}

func TestController_CompleteAndAdvance_SaveFailureAborts(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{course: threeLessons()}
	c := makeController(backend, event.NewBus())
	require.NoError(t, c.LoadCourse(context.Background(), 1, 0))

	backend.markErr = errors.New(errors.CodeUnavailable, errors.WithMessagef("Failed to update progress"))

	completed, err := c.CompleteAndAdvance(context.Background())
	require.Error(t, err)
	require.False(t, completed)
	require.Equal(t, "Failed to update progress", errors.Convert(err).Message)
	require.Equal(t, int64(10), activeID(t, c), "active lesson unchanged when the save fails")
	require.Empty(t, backend.marked)
}

func TestController_CompleteAndAdvance_NoActiveLesson(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{course: domain.Course{ID: 1, Title: "vide"}}
	c := makeController(backend, event.NewBus())
	require.NoError(t, c.LoadCourse(context.Background(), 1, 0))

	_, err := c.CompleteAndAdvance(context.Background())
	require.True(t, errors.HasCode(err, errors.CodeFailedPrecondition))
}

func TestController_SelectLesson(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{course: threeLessons()}
	c := makeController(backend, event.NewBus())
	require.NoError(t, c.LoadCourse(context.Background(), 1, 0))

	c.SelectLesson(30)
	require.Equal(t, int64(30), activeID(t, c))

	c.SelectLesson(999)
	require.Equal(t, int64(30), activeID(t, c), "unknown lesson id is ignored")
}

func TestController_RefreshKeepsPosition(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{course: threeLessons()}
	c := makeController(backend, event.NewBus())
	require.NoError(t, c.LoadCourse(context.Background(), 1, 0))
	c.SelectLesson(20)

	// Plain refresh, no preselection: position survives.
	require.NoError(t, c.LoadCourse(context.Background(), 1, 0))
	require.Equal(t, int64(20), activeID(t, c))
}
