// respond.go - JSON responses, request decoding and the mapping from
// domain errors to HTTP status codes.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"projectdesk/internal/filestore"
	"projectdesk/internal/model"
	"projectdesk/internal/store"
)

// maxJSONBody caps every JSON request body.
const maxJSONBody = 1 << 20

// apiError is an error whose message is safe to show to clients.
type apiError struct {
	Status int
	Detail string
	Fields map[string]string
}

func (e *apiError) Error() string { return e.Detail }

func badRequest(format string, args ...any) error {
	return &apiError{Status: http.StatusBadRequest, Detail: fmt.Sprintf(format, args...)}
}

type errorBody struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// fail answers r with the status that err maps to. Anything that is not a
// known client error is logged and reported as a bare 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		apiErr   *apiError
		notFound *store.NotFoundError
		tooLarge *http.MaxBytesError
	)
	switch {
	case errors.As(err, &apiErr):
		writeJSON(w, apiErr.Status, errorBody{Detail: apiErr.Detail, Fields: apiErr.Fields})
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, errorBody{Detail: notFound.Entity + " not found"})
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Detail: "not found"})
	case errors.Is(err, filestore.ErrNotExist):
		writeJSON(w, http.StatusNotFound, errorBody{Detail: "file content not found"})
	case errors.Is(err, store.ErrNoFields):
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: "no fields to update"})
	case errors.As(err, &tooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{
			Detail: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
		})
	default:
		s.log.WithFields(logrus.Fields{
			"rid":    RequestIDFromContext(r.Context()),
			"method": r.Method,
			"path":   r.URL.Path,
		}).WithError(err).Error("request failed")
		writeJSON(w, http.StatusInternalServerError, errorBody{Detail: "internal server error"})
	}
}

// pathID parses the {name} wildcard as a positive integer id.
func pathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid %s %q", name, raw)
	}
	return id, nil
}

// decode reads a JSON body into v and validates it.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return err
		case errors.Is(err, io.EOF):
			return badRequest("request body is required")
		default:
			return badRequest("invalid JSON body: %v", err)
		}
	}
	return s.check(v)
}

// check runs struct validation and converts failures into a field map
// keyed by JSON name.
func (s *Server) check(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	return &apiError{Status: http.StatusBadRequest, Detail: "validation failed", Fields: fields}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	enum := func(valid func(string) bool) validator.Func {
		return func(fl validator.FieldLevel) bool { return valid(fl.Field().String()) }
	}
	_ = v.RegisterValidation("task_status", enum(func(s string) bool { return model.TaskStatus(s).Valid() }))
	_ = v.RegisterValidation("project_status", enum(func(s string) bool { return model.ProjectStatus(s).Valid() }))
	_ = v.RegisterValidation("priority", enum(func(s string) bool { return model.Priority(s).Valid() }))
	_ = v.RegisterValidation("member_role", enum(func(s string) bool { return model.MemberRole(s).Valid() }))
	return v
}
