package server

import (
	"context"
	"errors"
	"sort"
	"sync"

	"projectdesk/internal/model"
	"projectdesk/internal/store"
)

// fakeRepo is an in-memory Repository. Only the behaviour the handlers
// depend on is modelled.
type fakeRepo struct {
	mu sync.Mutex

	employees map[int64]model.Employee
	projects  map[int64]model.ProjectDetail
	tasks     map[int64]model.TaskDetail
	links     map[int64][]model.ProjectLink
	members   map[[2]int64]int64
	stages    map[int64][]model.ProjectStage
	files     map[int64]model.FileRecord
	taskFiles map[int64][]int64
	projFiles map[int64][]int64

	nextID int64

	pingErr   error
	attachErr error
	listErr   error
	panicOn   string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		employees: map[int64]model.Employee{},
		projects:  map[int64]model.ProjectDetail{},
		tasks:     map[int64]model.TaskDetail{},
		links:     map[int64][]model.ProjectLink{},
		members:   map[[2]int64]int64{},
		stages:    map[int64][]model.ProjectStage{},
		files:     map[int64]model.FileRecord{},
		taskFiles: map[int64][]int64{},
		projFiles: map[int64][]int64{},
		nextID:    100,
	}
}

func (f *fakeRepo) id() int64 {
	f.nextID++
	return f.nextID
}

func ptr[T any](v T) *T { return &v }

func (f *fakeRepo) addEmployee(name string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.id()
	f.employees[id] = model.Employee{EmployeeID: id, FullName: name, Contacts: map[string]any{}}
	return id
}

func (f *fakeRepo) addProject(name string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.id()
	f.projects[id] = model.ProjectDetail{Project: model.Project{ProjectID: id, ProjectName: name, Status: model.ProjectActive}}
	return id
}

func (f *fakeRepo) addTask(projectID int64, name string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.id()
	f.tasks[id] = model.TaskDetail{TaskID: id, TaskName: name, ProjectID: &projectID, Status: model.TaskActive, Priority: model.PriorityMedium}
	return id
}

func (f *fakeRepo) Ping(context.Context) error { return f.pingErr }

func (f *fakeRepo) ListEmployees(context.Context) ([]model.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panicOn == "ListEmployees" {
		panic("boom")
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []model.Employee{}
	for _, e := range f.employees {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (f *fakeRepo) CreateEmployee(_ context.Context, in model.NewEmployee) (model.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.id()
	e := model.Employee{
		EmployeeID:     id,
		FullName:       in.FullName,
		Specialization: ptr(in.Specialization),
		Contacts:       in.Contacts(),
		HireDate:       in.HireDate,
	}
	if e.HireDate.IsZero() {
		e.HireDate = model.Today()
	}
	f.employees[id] = e
	return e, nil
}

func (f *fakeRepo) UpdateEmployee(_ context.Context, id int64, u model.EmployeeUpdate) (model.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.Empty() {
		return model.Employee{}, store.ErrNoFields
	}
	e, ok := f.employees[id]
	if !ok {
		return model.Employee{}, &store.NotFoundError{Entity: store.EntityEmployee, ID: id}
	}
	if u.FullName != nil {
		e.FullName = *u.FullName
	}
	if u.Specialization != nil {
		e.Specialization = u.Specialization
	}
	if u.Email != nil {
		e.Email = u.Email
	}
	if u.Contacts != nil {
		e.Contacts = u.Contacts
	}
	f.employees[id] = e
	return e, nil
}

func (f *fakeRepo) DeleteEmployee(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.employees[id]; !ok {
		return &store.NotFoundError{Entity: store.EntityEmployee, ID: id}
	}
	delete(f.employees, id)
	return nil
}

func (f *fakeRepo) EmployeeTasks(_ context.Context, id int64) ([]model.TaskDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.TaskDetail{}
	for _, t := range f.tasks {
		if t.ExecutorID != nil && *t.ExecutorID == id {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeRepo) EmployeeTaskCount(ctx context.Context, id int64) (int, error) {
	tasks, err := f.EmployeeTasks(ctx, id)
	return len(tasks), err
}

func (f *fakeRepo) EmployeeProjects(context.Context, int64) ([]model.Project, error) {
	return []model.Project{}, nil
}

func (f *fakeRepo) CreateTask(_ context.Context, in model.NewTask) (model.TaskDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.employees[in.ExecutorID]; !ok {
		return model.TaskDetail{}, &store.NotFoundError{Entity: store.EntityEmployee, ID: in.ExecutorID}
	}
	if _, ok := f.projects[in.ProjectID]; !ok {
		return model.TaskDetail{}, &store.NotFoundError{Entity: store.EntityProject, ID: in.ProjectID}
	}
	id := f.id()
	t := model.TaskDetail{
		TaskID:     id,
		TaskName:   in.TaskName,
		ProjectID:  ptr(in.ProjectID),
		ExecutorID: ptr(in.ExecutorID),
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		Status:     in.Status,
		Priority:   in.Priority,
	}
	f.tasks[id] = t
	return t, nil
}

func (f *fakeRepo) UpdateTaskStatus(_ context.Context, id int64, status model.TaskStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok {
		return &store.NotFoundError{Entity: store.EntityTask, ID: id}
	}
	t.Status = status
	f.tasks[id] = t
	return nil
}

func (f *fakeRepo) TaskTemplates(context.Context) ([]model.TaskTemplate, error) {
	return []model.TaskTemplate{{TaskName: "Код-ревью", Priority: model.PriorityHigh, TimeSpent: 2}}, nil
}

func (f *fakeRepo) listProjects(archived bool) []model.Project {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Project{}
	for _, p := range f.projects {
		if (p.Status == model.ProjectArchived) == archived {
			out = append(out, p.Project)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProjectID > out[j].ProjectID })
	return out
}

func (f *fakeRepo) ListProjects(context.Context) ([]model.Project, error) {
	return f.listProjects(false), nil
}

func (f *fakeRepo) ArchivedProjects(context.Context) ([]model.Project, error) {
	return f.listProjects(true), nil
}

func (f *fakeRepo) ProjectDetail(_ context.Context, id int64) (model.ProjectDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[id]
	if !ok {
		return model.ProjectDetail{}, &store.NotFoundError{Entity: store.EntityProject, ID: id}
	}
	return p, nil
}

func (f *fakeRepo) CreateProject(_ context.Context, in model.NewProject) (model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.employees[in.ManagerID]; !ok {
		return model.Project{}, &store.NotFoundError{Entity: store.EntityEmployee, ID: in.ManagerID}
	}
	id := f.id()
	p := model.Project{ProjectID: id, ProjectName: in.ProjectName, Status: in.Status, ClientName: ptr(in.ClientName)}
	f.projects[id] = model.ProjectDetail{Project: p, Budget: in.Budget, ContactInfo: in.ContactInfo()}
	return p, nil
}

func (f *fakeRepo) UpdateProjectStatus(_ context.Context, id int64, status model.ProjectStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[id]
	if !ok {
		return &store.NotFoundError{Entity: store.EntityProject, ID: id}
	}
	p.Status = status
	f.projects[id] = p
	return nil
}

func (f *fakeRepo) ProjectTasks(_ context.Context, id int64) ([]model.TaskDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.TaskDetail{}
	for _, t := range f.tasks {
		if t.ProjectID != nil && *t.ProjectID == id {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeRepo) AddLink(_ context.Context, projectID int64, in model.NewLink) (model.ProjectLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.projects[projectID]; !ok {
		return model.ProjectLink{}, &store.NotFoundError{Entity: store.EntityProject, ID: projectID}
	}
	l := model.ProjectLink{LinkID: f.id(), Title: in.Title, URL: in.URL, LinkType: in.Type}
	f.links[projectID] = append(f.links[projectID], l)
	return l, nil
}

func (f *fakeRepo) ProjectLinks(_ context.Context, projectID int64) ([]model.ProjectLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.ProjectLink{}, f.links[projectID]...), nil
}

func (f *fakeRepo) AddMember(_ context.Context, projectID, employeeID int64, role model.MemberRole) (model.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.projects[projectID]; !ok {
		return model.Membership{}, &store.NotFoundError{Entity: store.EntityProject, ID: projectID}
	}
	if _, ok := f.employees[employeeID]; !ok {
		return model.Membership{}, &store.NotFoundError{Entity: store.EntityEmployee, ID: employeeID}
	}
	key := [2]int64{projectID, employeeID}
	if id, ok := f.members[key]; ok {
		return model.Membership{MemberID: id, AlreadyExists: true}, nil
	}
	id := f.id()
	f.members[key] = id
	return model.Membership{MemberID: id}, nil
}

func (f *fakeRepo) ProjectMembers(_ context.Context, projectID int64) ([]model.ProjectMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.ProjectMember{}
	for key := range f.members {
		if key[0] == projectID {
			e := f.employees[key[1]]
			out = append(out, model.ProjectMember{EmployeeID: e.EmployeeID, FullName: e.FullName, Role: model.RoleMember})
		}
	}
	return out, nil
}

func (f *fakeRepo) AddStage(_ context.Context, projectID int64, in model.NewStage) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.projects[projectID]; !ok {
		return 0, &store.NotFoundError{Entity: store.EntityProject, ID: projectID}
	}
	id := f.id()
	f.stages[projectID] = append(f.stages[projectID], model.ProjectStage{StageID: id, StageName: in.Title, Order: in.Order, Status: in.Status})
	sort.SliceStable(f.stages[projectID], func(i, j int) bool {
		return f.stages[projectID][i].Order < f.stages[projectID][j].Order
	})
	return id, nil
}

func (f *fakeRepo) ProjectStages(_ context.Context, projectID int64) ([]model.ProjectStage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.ProjectStage{}, f.stages[projectID]...), nil
}

func (f *fakeRepo) TaskExists(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[id]; !ok {
		return &store.NotFoundError{Entity: store.EntityTask, ID: id}
	}
	return nil
}

func (f *fakeRepo) ProjectExists(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.projects[id]; !ok {
		return &store.NotFoundError{Entity: store.EntityProject, ID: id}
	}
	return nil
}

func (f *fakeRepo) attach(links map[int64][]int64, parent int64, nf model.NewFile) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.attachErr != nil {
		return 0, f.attachErr
	}
	id := f.id()
	f.files[id] = model.FileRecord{FileID: id, Filename: nf.Filename, StoredPath: nf.StoredPath, ContentType: nf.ContentType, Size: nf.Size}
	links[parent] = append(links[parent], id)
	return id, nil
}

func (f *fakeRepo) AttachTaskFile(_ context.Context, taskID int64, nf model.NewFile) (int64, error) {
	return f.attach(f.taskFiles, taskID, nf)
}

func (f *fakeRepo) AttachProjectFile(_ context.Context, projectID int64, nf model.NewFile) (int64, error) {
	return f.attach(f.projFiles, projectID, nf)
}

func (f *fakeRepo) fileInfos(ids []int64) []model.FileInfo {
	out := []model.FileInfo{}
	for _, id := range ids {
		rec := f.files[id]
		out = append(out, model.FileInfo{
			FileID:   rec.FileID,
			Filename: rec.Filename,
			FilePath: store.FileViewURL(rec.FileID),
			Size:     rec.Size,
			FileType: ptr(rec.ContentType),
		})
	}
	return out
}

func (f *fakeRepo) TaskFiles(ctx context.Context, taskID int64) ([]model.FileInfo, error) {
	if err := f.TaskExists(ctx, taskID); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fileInfos(f.taskFiles[taskID]), nil
}

func (f *fakeRepo) ProjectFiles(_ context.Context, projectID int64) ([]model.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fileInfos(f.projFiles[projectID]), nil
}

func (f *fakeRepo) File(_ context.Context, id int64) (model.FileRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.files[id]
	if !ok {
		return model.FileRecord{}, &store.NotFoundError{Entity: store.EntityFile, ID: id}
	}
	return rec, nil
}

func (f *fakeRepo) putFile(rec model.FileRecord) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec.FileID = f.id()
	f.files[rec.FileID] = rec
	return rec.FileID
}

var errDatabaseDown = errors.New("dial tcp 10.0.0.5:5432: connection refused")
