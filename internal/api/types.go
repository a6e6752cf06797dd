package api

// EvaluationSummary is one evaluation assigned to the student.
type EvaluationSummary struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	CourseCode string `json:"course_code,omitempty"`
	Batch      string `json:"batch,omitempty"`
	Session    string `json:"session,omitempty"`
	DueDate    string `json:"last_date,omitempty"`
}

// CompletedEvaluation is an immutable snapshot of a finished evaluation.
type CompletedEvaluation struct {
	TemplateID     string `json:"template_id"`
	Title          string `json:"title"`
	CourseCode     string `json:"course_code,omitempty"`
	CourseName     string `json:"course_name,omitempty"`
	FacultyName    string `json:"faculty_name,omitempty"`
	Session        string `json:"session,omitempty"`
	Batch          string `json:"batch,omitempty"`
	CompletionDate string `json:"completion_date"`
}

// FeedbackDetail is the lazily fetched question/answer breakdown for a
// completed evaluation.
type FeedbackDetail struct {
	Feedback map[string]string `json:"feedback"`
	Comment  string            `json:"comment,omitempty"`
}

// ProfileRecord is the student's profile as served by the portal. Only the
// fields named in EditableProfileFields may be changed from this client.
type ProfileRecord struct {
	StudentID         string `json:"student_id"`
	Name              string `json:"name"`
	Email             string `json:"email,omitempty"`
	ContactNo         string `json:"contact_no,omitempty"`
	DOB               string `json:"dob,omitempty"`
	Gender            string `json:"gender,omitempty"`
	Session           string `json:"session,omitempty"`
	Batch             string `json:"batch,omitempty"`
	Department        string `json:"department,omitempty"`
	EnrollmentDate    string `json:"enrollment_date,omitempty"`
	CGPA              string `json:"cgpa,omitempty"`
	ProfilePicture    string `json:"profile_picture,omitempty"`
	BehavioralRecords string `json:"behavioral_records,omitempty"`
}

// Profile field names used in partial updates.
const (
	FieldName              = "name"
	FieldContactNo         = "contact_no"
	FieldProfilePicture    = "profile_picture"
	FieldBehavioralRecords = "behavioral_records"
)

// EditableProfileFields lists the fields a student may change, in display order.
var EditableProfileFields = []string{
	FieldName,
	FieldContactNo,
	FieldProfilePicture,
	FieldBehavioralRecords,
}

// Complaint is one complaint as listed back to the student. Status moves
// server-side only (pending → in_progress → resolved).
type Complaint struct {
	CourseCode string `json:"course_code,omitempty"`
	IssueType  string `json:"issue_type"`
	Details    string `json:"details"`
	Status     string `json:"status"`
}

// ComplaintSubmission is the body of a new complaint.
type ComplaintSubmission struct {
	CourseCode string `json:"course_code,omitempty"`
	IssueType  string `json:"issue_type"`
	Details    string `json:"details"`
}

// FacultyRequest asks for a faculty for an upcoming course. Write-only from
// this client; there is no listing view.
type FacultyRequest struct {
	CourseName           string `json:"course_name"`
	RequestedFacultyName string `json:"requested_faculty_name,omitempty"`
	Details              string `json:"details"`
}

// LoginResult is the response to a successful login.
type LoginResult struct {
	Token     string `json:"token"`
	StudentID string `json:"student_id"`
	Name      string `json:"student_name"`
}
