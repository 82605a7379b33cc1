// Package model holds the entities served by the API and the request
// payloads that create or change them.
package model

// Position is a job title referenced by employees.
type Position struct {
	PositionID   int64  `json:"position_id"`
	PositionName string `json:"position_name"`
}

// Department groups employees.
type Department struct {
	DepartmentID        int64   `json:"department_id"`
	DepartmentName      string  `json:"department_name"`
	FunctionDescription *string `json:"function_description"`
}

// Employee is a staff member. Contacts is an arbitrary key/value blob.
type Employee struct {
	EmployeeID     int64          `json:"employee_id"`
	FullName       string         `json:"full_name"`
	Specialization *string        `json:"specialization"`
	Email          *string        `json:"email"`
	Contacts       map[string]any `json:"contacts"`
	HireDate       Date           `json:"hire_date"`
	Department     *Department    `json:"department"`
	Position       *Position      `json:"position"`
}

// Client is the customer side of a project.
type Client struct {
	ClientID int64   `json:"client_id"`
	FullName *string `json:"full_name"`
	Company  *string `json:"company"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
}

// Project is the list representation of a project.
type Project struct {
	ProjectID   int64         `json:"project_id"`
	ProjectName string        `json:"project_name"`
	Description *string       `json:"description"`
	StartDate   Date          `json:"start_date"`
	EndDate     Date          `json:"end_date"`
	Status      ProjectStatus `json:"status"`
	ClientName  *string       `json:"client_name"`
	ClientEmail *string       `json:"client_email"`
	ClientPhone *string       `json:"client_phone"`
	ManagerName *string       `json:"manager_name"`
	CreatedDate Date          `json:"created_date"`
}

// ProjectDetail adds budget and the stored contact blob to Project.
type ProjectDetail struct {
	Project
	Budget      float64        `json:"budget"`
	ContactInfo map[string]any `json:"contact_info"`
}

// TaskDetail is a task joined with its project and executor names.
type TaskDetail struct {
	TaskID       int64      `json:"task_id"`
	TaskName     string     `json:"task_name"`
	Description  *string    `json:"description"`
	ProjectID    *int64     `json:"project_id"`
	ProjectName  *string    `json:"project_name"`
	StartDate    Date       `json:"start_date"`
	EndDate      Date       `json:"end_date"`
	Status       TaskStatus `json:"status"`
	Priority     Priority   `json:"priority"`
	ExecutorID   *int64     `json:"executor_id"`
	ExecutorName *string    `json:"executor_name"`
	TimeSpent    int        `json:"time_spent"`
	Progress     int        `json:"progress"`
}

// TaskTemplate is a reusable task shape: a task with no project.
type TaskTemplate struct {
	TaskName    string   `json:"task_name"`
	Description *string  `json:"description"`
	Priority    Priority `json:"priority"`
	TimeSpent   int      `json:"time_spent"`
}

// ProjectStage is one ordered step of a project.
type ProjectStage struct {
	StageID     int64      `json:"stage_id"`
	StageName   string     `json:"stage_name"`
	Description *string    `json:"description"`
	Order       int        `json:"order"`
	StartDate   Date       `json:"start_date"`
	EndDate     Date       `json:"end_date"`
	Status      TaskStatus `json:"status"`
}

// StageTemplate is a suggested stage offered to clients.
type StageTemplate struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// ProjectLink is an external material attached to a project.
type ProjectLink struct {
	LinkID      int64   `json:"link_id"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	LinkType    string  `json:"link_type"`
	Description *string `json:"description"`
}

// ProjectMember is an employee as seen from a project.
type ProjectMember struct {
	EmployeeID int64      `json:"employee_id"`
	FullName   string     `json:"full_name"`
	Position   *string    `json:"position"`
	Role       MemberRole `json:"role"`
	JoinDate   Date       `json:"join_date"`
}

// Membership reports the outcome of adding an employee to a project.
type Membership struct {
	MemberID      int64
	AlreadyExists bool
}

// FileInfo describes an uploaded file in listings.
type FileInfo struct {
	FileID     int64   `json:"file_id"`
	Filename   string  `json:"filename"`
	FilePath   string  `json:"file_path"`
	Size       int64   `json:"size"`
	FileType   *string `json:"file_type"`
	UploadDate Date    `json:"upload_date"`
	CanPreview bool    `json:"can_preview"`
}

// FileRecord is the stored metadata needed to serve a file.
type FileRecord struct {
	FileID      int64
	Filename    string
	StoredPath  string
	ContentType string
	Size        int64
}

// NewFile is the metadata recorded for a fresh upload.
type NewFile struct {
	Filename    string
	StoredPath  string
	Size        int64
	ContentType string
	UploaderID  int64
}
