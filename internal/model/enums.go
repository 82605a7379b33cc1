package model

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectArchived  ProjectStatus = "archived"
	// ProjectUnknown is reported for rows whose stored status is NULL or
	// not one of the values above. It is never accepted as input.
	ProjectUnknown ProjectStatus = "unknown"
)

// ParseProjectStatus maps a stored value onto the closed set.
func ParseProjectStatus(s string) ProjectStatus {
	switch ProjectStatus(s) {
	case ProjectActive, ProjectCompleted, ProjectArchived:
		return ProjectStatus(s)
	}
	return ProjectUnknown
}

// Valid reports whether s may be written by a client.
func (s ProjectStatus) Valid() bool {
	return s == ProjectActive || s == ProjectCompleted || s == ProjectArchived
}

// TaskStatus is the lifecycle state of a task or a project stage.
type TaskStatus string

const (
	TaskActive    TaskStatus = "active"
	TaskCompleted TaskStatus = "completed"
)

// ParseTaskStatus maps a stored value onto the closed set. Tasks with no
// recognizable status are treated as still open.
func ParseTaskStatus(s string) TaskStatus {
	if TaskStatus(s) == TaskCompleted {
		return TaskCompleted
	}
	return TaskActive
}

func (s TaskStatus) Valid() bool { return s == TaskActive || s == TaskCompleted }

// Priority of a task. Values are stored as-is in the database.
type Priority string

const (
	PriorityLow    Priority = "Низкий"
	PriorityMedium Priority = "Средний"
	PriorityHigh   Priority = "Высокий"
)

// ParsePriority maps a stored value onto the closed set.
func ParsePriority(s string) Priority {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s)
	}
	return PriorityMedium
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// MemberRole is the role an employee plays inside a project.
type MemberRole string

const (
	RoleMember   MemberRole = "Участник проекта"
	RoleLead     MemberRole = "Руководитель проекта"
	RoleObserver MemberRole = "Наблюдатель"
)

// ParseMemberRole maps a stored value onto the closed set.
func ParseMemberRole(s string) MemberRole {
	switch MemberRole(s) {
	case RoleMember, RoleLead, RoleObserver:
		return MemberRole(s)
	}
	return RoleMember
}

func (r MemberRole) Valid() bool { return ParseMemberRole(string(r)) == r }
