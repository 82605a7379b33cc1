package server

import (
	"net/http"

	"projectdesk/internal/model"
)

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var in model.NewTask
	if err := s.decode(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	in.ApplyDefaults()
	task, err := s.store.CreateTask(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleUpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in model.TaskStatusUpdate
	if err := s.decode(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.UpdateTaskStatus(r.Context(), id, in.Status); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Статус задачи обновлен",
		"task_id": id,
		"status":  in.Status,
	})
}
