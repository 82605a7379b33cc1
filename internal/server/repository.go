package server

import (
	"context"

	"projectdesk/internal/model"
)

// EmployeeRepository is the employee half of the store.
type EmployeeRepository interface {
	ListEmployees(ctx context.Context) ([]model.Employee, error)
	CreateEmployee(ctx context.Context, in model.NewEmployee) (model.Employee, error)
	UpdateEmployee(ctx context.Context, id int64, u model.EmployeeUpdate) (model.Employee, error)
	DeleteEmployee(ctx context.Context, id int64) error
	EmployeeTasks(ctx context.Context, id int64) ([]model.TaskDetail, error)
	EmployeeTaskCount(ctx context.Context, id int64) (int, error)
	EmployeeProjects(ctx context.Context, id int64) ([]model.Project, error)
}

type TaskRepository interface {
	CreateTask(ctx context.Context, in model.NewTask) (model.TaskDetail, error)
	UpdateTaskStatus(ctx context.Context, id int64, status model.TaskStatus) error
	TaskTemplates(ctx context.Context) ([]model.TaskTemplate, error)
}

type ProjectRepository interface {
	ListProjects(ctx context.Context) ([]model.Project, error)
	ArchivedProjects(ctx context.Context) ([]model.Project, error)
	ProjectDetail(ctx context.Context, id int64) (model.ProjectDetail, error)
	CreateProject(ctx context.Context, in model.NewProject) (model.Project, error)
	UpdateProjectStatus(ctx context.Context, id int64, status model.ProjectStatus) error
	ProjectTasks(ctx context.Context, id int64) ([]model.TaskDetail, error)
	AddLink(ctx context.Context, projectID int64, in model.NewLink) (model.ProjectLink, error)
	ProjectLinks(ctx context.Context, projectID int64) ([]model.ProjectLink, error)
	AddMember(ctx context.Context, projectID, employeeID int64, role model.MemberRole) (model.Membership, error)
	ProjectMembers(ctx context.Context, projectID int64) ([]model.ProjectMember, error)
	AddStage(ctx context.Context, projectID int64, in model.NewStage) (int64, error)
	ProjectStages(ctx context.Context, projectID int64) ([]model.ProjectStage, error)
}

// FileRepository records upload metadata; the bytes live in a
// filestore.Backend.
type FileRepository interface {
	TaskExists(ctx context.Context, id int64) error
	ProjectExists(ctx context.Context, id int64) error
	AttachTaskFile(ctx context.Context, taskID int64, f model.NewFile) (int64, error)
	AttachProjectFile(ctx context.Context, projectID int64, f model.NewFile) (int64, error)
	TaskFiles(ctx context.Context, taskID int64) ([]model.FileInfo, error)
	ProjectFiles(ctx context.Context, projectID int64) ([]model.FileInfo, error)
	File(ctx context.Context, id int64) (model.FileRecord, error)
}

// Repository is everything the handlers need from persistence.
// *store.Store implements it.
type Repository interface {
	EmployeeRepository
	TaskRepository
	ProjectRepository
	FileRepository
	Ping(ctx context.Context) error
}
