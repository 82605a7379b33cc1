package model

import "strings"

// Defaults applied to optional request fields.
const (
	DefaultLinkTitle = "Ссылка"
	DefaultLinkType  = "link"
	DefaultStageNo   = 1
)

// NewEmployee is the payload of POST /api/employees.
type NewEmployee struct {
	FullName       string `json:"full_name" validate:"required,max=255"`
	Specialization string `json:"specialization" validate:"required,max=255"`
	Email          string `json:"email" validate:"omitempty,email,max=255"`
	Phone          string `json:"phone" validate:"omitempty,max=64"`
	PositionID     *int64 `json:"position_id" validate:"omitempty,gt=0"`
	HireDate       Date   `json:"hire_date"`
}

// Contacts builds the contact blob stored with a new employee.
func (e NewEmployee) Contacts() map[string]any {
	contacts := map[string]any{}
	if e.Phone != "" {
		contacts["phone"] = e.Phone
	}
	return contacts
}

// EmployeeUpdate is the payload of PUT /api/employees/{id}. Nil fields
// are left untouched.
type EmployeeUpdate struct {
	FullName       *string        `json:"full_name" validate:"omitempty,min=1,max=255"`
	Specialization *string        `json:"specialization" validate:"omitempty,max=255"`
	Email          *string        `json:"email" validate:"omitempty,max=255"`
	Contacts       map[string]any `json:"contacts"`
}

// Empty reports whether the update carries no field at all.
func (u EmployeeUpdate) Empty() bool {
	return u.FullName == nil && u.Specialization == nil && u.Email == nil && u.Contacts == nil
}

// NewTask is the payload of POST /api/tasks.
type NewTask struct {
	TaskName    string     `json:"task_name" validate:"required,max=255"`
	Description string     `json:"description"`
	ExecutorID  int64      `json:"executor_id" validate:"required,gt=0"`
	ProjectID   int64      `json:"project_id" validate:"required,gt=0"`
	StartDate   Date       `json:"start_date"`
	EndDate     Date       `json:"end_date"`
	Status      TaskStatus `json:"status" validate:"omitempty,task_status"`
	Priority    Priority   `json:"priority" validate:"omitempty,priority"`
}

// ApplyDefaults fills the optional fields the way the service always has:
// tasks start today, are active and of medium priority.
func (t *NewTask) ApplyDefaults() {
	if t.StartDate.IsZero() {
		t.StartDate = Today()
	}
	if t.Status == "" {
		t.Status = TaskActive
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
}

// NewProject is the payload of POST /api/projects.
type NewProject struct {
	ProjectName string        `json:"project_name" validate:"required,max=255"`
	Description string        `json:"description"`
	ClientName  string        `json:"client_name" validate:"required,max=255"`
	ClientEmail string        `json:"client_email" validate:"omitempty,max=255"`
	ClientPhone string        `json:"client_phone" validate:"omitempty,max=64"`
	StartDate   Date          `json:"start_date"`
	EndDate     Date          `json:"end_date"`
	Status      ProjectStatus `json:"status" validate:"omitempty,project_status"`
	ManagerID   int64         `json:"manager_id" validate:"required,gt=0"`
	Budget      float64       `json:"budget" validate:"gte=0"`
}

// ApplyDefaults trims the client identity and fills the status.
func (p *NewProject) ApplyDefaults() {
	p.ClientName = strings.TrimSpace(p.ClientName)
	p.ClientEmail = strings.TrimSpace(p.ClientEmail)
	p.ClientPhone = strings.TrimSpace(p.ClientPhone)
	if p.Status == "" {
		p.Status = ProjectActive
	}
}

// ContactInfo builds the contact blob stored on the project row, or nil
// when there is nothing to store.
func (p NewProject) ContactInfo() map[string]any {
	info := map[string]any{}
	if p.ClientEmail != "" {
		info["email"] = p.ClientEmail
	}
	if p.ClientPhone != "" {
		info["phone"] = p.ClientPhone
	}
	if p.ClientName != "" {
		info["client_name"] = p.ClientName
	}
	if len(info) == 0 {
		return nil
	}
	return info
}

// NewStage is the payload of POST /api/projects/{id}/stages.
type NewStage struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Description string     `json:"description"`
	Order       int        `json:"order" validate:"gte=0"`
	StartDate   Date       `json:"start_date"`
	EndDate     Date       `json:"end_date"`
	Status      TaskStatus `json:"status" validate:"omitempty,task_status"`
}

func (s *NewStage) ApplyDefaults() {
	if s.Order == 0 {
		s.Order = DefaultStageNo
	}
	if s.Status == "" {
		s.Status = TaskActive
	}
}

// NewLink is the payload of POST /api/projects/{id}/materials.
type NewLink struct {
	Title       string `json:"title" validate:"max=255"`
	URL         string `json:"url" validate:"required,max=2048"`
	Type        string `json:"type" validate:"max=64"`
	Description string `json:"description"`
}

// ApplyDefaults fills title and type and makes sure the URL carries a
// scheme.
func (l *NewLink) ApplyDefaults() {
	l.URL = NormalizeURL(l.URL)
	if strings.TrimSpace(l.Title) == "" {
		l.Title = DefaultLinkTitle
	}
	if strings.TrimSpace(l.Type) == "" {
		l.Type = DefaultLinkType
	}
}

// NormalizeURL prefixes https:// when the URL has neither an http nor an
// https scheme. Other values are returned trimmed but otherwise as given.
func NormalizeURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return u
	}
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return "https://" + u
}

// NewMember is the payload of POST /api/projects/{id}/employees.
type NewMember struct {
	EmployeeID FlexID     `json:"employee_id" validate:"required,gt=0"`
	Role       MemberRole `json:"role" validate:"omitempty,member_role"`
}

// TaskStatusUpdate is the payload of PUT /api/tasks/{id}/status.
type TaskStatusUpdate struct {
	Status TaskStatus `json:"status" validate:"required,task_status"`
}

// ProjectStatusUpdate is the payload of PUT /api/projects/{id}/status.
type ProjectStatusUpdate struct {
	Status ProjectStatus `json:"status" validate:"required,project_status"`
}
