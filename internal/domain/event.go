package domain

const (
	EventNameSignedIn        = "auth.signed_in"
	EventNameSignedOut       = "auth.signed_out"
	EventNameCourseCompleted = "course.completed"
)

type EventSignedIn struct {
	Account Account
}

func (EventSignedIn) Name() string { return EventNameSignedIn }

type EventSignedOut struct{}

func (EventSignedOut) Name() string { return EventNameSignedOut }

type EventCourseCompleted struct {
	CourseID int64
}

func (EventCourseCompleted) Name() string { return EventNameCourseCompleted }
