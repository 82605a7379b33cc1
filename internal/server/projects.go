package server

import (
	"net/http"

	"projectdesk/internal/catalog"
	"projectdesk/internal/model"
)

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var in model.NewProject
	if err := s.decode(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	in.ApplyDefaults()
	if in.ClientName == "" {
		s.fail(w, r, &apiError{
			Status: http.StatusBadRequest,
			Detail: "validation failed",
			Fields: map[string]string{"client_name": "required"},
		})
		return
	}
	p, err := s.store.CreateProject(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdateProjectStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in model.ProjectStatusUpdate
	if err := s.decode(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.UpdateProjectStatus(r.Context(), id, in.Status); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Статус проекта обновлен",
		"project_id": id,
		"status":     in.Status,
	})
}

func (s *Server) handleAddMaterial(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in model.NewLink
	if err := s.decode(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	in.ApplyDefaults()
	if in.URL == "" {
		s.fail(w, r, badRequest("url is required"))
		return
	}
	link, err := s.store.AddLink(r.Context(), id, in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Материал добавлен",
		"material_id": link.LinkID,
		"title":       link.Title,
		"url":         link.URL,
	})
}

func (s *Server) handleAddProjectEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in model.NewMember
	if err := s.decode(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	m, err := s.store.AddMember(r.Context(), id, int64(in.EmployeeID), in.Role)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	msg := "Сотрудник добавлен к проекту"
	if m.AlreadyExists {
		msg = "Сотрудник уже добавлен к проекту"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":        msg,
		"member_id":      m.MemberID,
		"already_exists": m.AlreadyExists,
	})
}

func (s *Server) handleCreateStage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in model.NewStage
	if err := s.decode(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	in.ApplyDefaults()
	stageID, err := s.store.AddStage(r.Context(), id, in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "Этап проекта создан",
		"stage_id": stageID,
	})
}

func (s *Server) handleStageTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := catalog.StageTemplates()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, templates)
}
