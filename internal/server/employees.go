package server

import (
	"net/http"

	"projectdesk/internal/model"
)

func (s *Server) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var in model.NewEmployee
	if err := s.decode(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	emp, err := s.store.CreateEmployee(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, emp)
}

func (s *Server) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var u model.EmployeeUpdate
	if err := s.decode(w, r, &u); err != nil {
		s.fail(w, r, err)
		return
	}
	emp, err := s.store.UpdateEmployee(r.Context(), id, u)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emp)
}

func (s *Server) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.DeleteEmployee(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEmployeeTaskCount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	n, err := s.store.EmployeeTaskCount(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": n})
}
