package server

import (
	"context"
	"net/http"
)

const homeMessage = "API сотрудников и проектов работает! CORS настроен."

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleHome)

	mux.HandleFunc("GET /health", s.HandleHealth)
	mux.HandleFunc("GET /ready", s.HandleReady)
	mux.HandleFunc("GET /live", s.HandleLive)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	// Employees
	mux.HandleFunc("GET /api/employees", list(s, s.store.ListEmployees))
	mux.HandleFunc("GET /api/employees/all", list(s, s.store.ListEmployees))
	mux.HandleFunc("POST /api/employees", s.handleCreateEmployee)
	mux.HandleFunc("PUT /api/employees/{id}", s.handleUpdateEmployee)
	mux.HandleFunc("DELETE /api/employees/{id}", s.handleDeleteEmployee)
	mux.HandleFunc("GET /api/employees/{id}/tasks", byID(s, s.store.EmployeeTasks))
	mux.HandleFunc("GET /api/employees/{id}/tasks/count", s.handleEmployeeTaskCount)
	mux.HandleFunc("GET /api/employees/{id}/projects", byID(s, s.store.EmployeeProjects))

	// Tasks
	mux.HandleFunc("POST /api/tasks", s.handleCreateTask)
	mux.HandleFunc("GET /api/tasks/templates", list(s, s.store.TaskTemplates))
	mux.HandleFunc("PUT /api/tasks/{id}/status", s.handleUpdateTaskStatus)
	mux.HandleFunc("GET /api/tasks/{id}/files", byID(s, s.taskFiles))
	mux.HandleFunc("POST /api/tasks/{id}/files", s.handleUploadTaskFile)

	mux.HandleFunc("GET /api/files/{id}/view", s.handleViewFile)

	// Projects
	mux.HandleFunc("GET /api/projects", list(s, s.store.ListProjects))
	mux.HandleFunc("POST /api/projects", s.handleCreateProject)
	mux.HandleFunc("GET /api/projects/archived", list(s, s.store.ArchivedProjects))
	mux.HandleFunc("GET /api/projects/stages/templates", s.handleStageTemplates)
	mux.HandleFunc("GET /api/projects/{id}", byID(s, s.store.ProjectDetail))
	mux.HandleFunc("PUT /api/projects/{id}/status", s.handleUpdateProjectStatus)
	mux.HandleFunc("GET /api/projects/{id}/tasks", byID(s, s.store.ProjectTasks))
	mux.HandleFunc("GET /api/projects/{id}/files", byID(s, s.projectFiles))
	mux.HandleFunc("POST /api/projects/{id}/files", s.handleUploadProjectFile)
	mux.HandleFunc("GET /api/projects/{id}/materials", byID(s, s.store.ProjectLinks))
	mux.HandleFunc("POST /api/projects/{id}/materials", s.handleAddMaterial)
	mux.HandleFunc("GET /api/projects/{id}/links", byID(s, s.store.ProjectLinks))
	mux.HandleFunc("GET /api/projects/{id}/employees", byID(s, s.store.ProjectMembers))
	mux.HandleFunc("POST /api/projects/{id}/employees", s.handleAddProjectEmployee)
	mux.HandleFunc("GET /api/projects/{id}/stages", byID(s, s.store.ProjectStages))
	mux.HandleFunc("POST /api/projects/{id}/stages", s.handleCreateStage)
}

// list serves a read with no parameters.
func list[T any](s *Server, fetch func(context.Context) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := fetch(r.Context())
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

// byID serves a read keyed by the {id} wildcard.
func byID[T any](s *Server, fetch func(context.Context, int64) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			s.fail(w, r, err)
			return
		}
		v, err := fetch(r.Context(), id)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": homeMessage})
}
