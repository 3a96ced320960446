package domain

// Account is the locally cached identity: the signed-in username, its role
// and the bearer token returned by the login endpoint.
type Account struct {
	User        string
	Role        string
	AccessToken string
}

const (
	RoleCandidate = "candidat"
	RoleMonitor   = "monitor"
)

// Course as returned by the course endpoints. Lessons is only populated by
// the full-detail endpoint; list endpoints return it empty.
type Course struct {
	ID               int64    `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Thumbnail        string   `json:"thumbnail"`
	EnrollmentStatus string   `json:"enrollment_status"`
	Lessons          []Lesson `json:"lessons"`
}

type Lesson struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	VideoURL    string `json:"video_url"`
	IsCompleted bool   `json:"is_completed"`
}

// Enrollment is a monitor-dashboard row. The backend owns the truth; the
// client only ever replaces the whole list after a reload.
type Enrollment struct {
	ID           int64  `json:"id"`
	StudentName  string `json:"student_name"`
	StudentEmail string `json:"student_email"`
	CourseTitle  string `json:"course_title"`
	Progress     int              `json:"progress"`
	Status       EnrollmentStatus `json:"status"`
}

type EnrollmentStatus string

const (
	EnrollmentPending  EnrollmentStatus = "pending"
	EnrollmentActive   EnrollmentStatus = "active"
	EnrollmentRejected EnrollmentStatus = "rejected"
)

type EnrollmentAction string

const (
	ActionApprove EnrollmentAction = "approve"
	ActionReject  EnrollmentAction = "reject"
)

func (a EnrollmentAction) Valid() bool {
	return a == ActionApprove || a == ActionReject
}
