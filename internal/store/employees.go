package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"projectdesk/internal/model"
)

// ListEmployees returns every employee ordered by full name, with position
// and department joined in.
func (s *Store) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	return queryList(ctx, s.db, scanEmployee, `SELECT `+employeeColumns+` ORDER BY e."ФИО", e."Код сотрудника"`)
}

// GetEmployee loads one employee.
func (s *Store) GetEmployee(ctx context.Context, id int64) (model.Employee, error) {
	return getEmployee(ctx, s.db, id)
}

func getEmployee(ctx context.Context, q querier, id int64) (model.Employee, error) {
	e, err := scanEmployee(q.QueryRowContext(ctx, `SELECT `+employeeColumns+` WHERE e."Код сотрудника" = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Employee{}, notFound(EntityEmployee, id)
	}
	return e, err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// CreateEmployee inserts an employee. The hire date defaults to today.
func (s *Store) CreateEmployee(ctx context.Context, in model.NewEmployee) (model.Employee, error) {
	hired := in.HireDate
	if hired.IsZero() {
		hired = model.Today()
	}
	contacts, err := json.Marshal(in.Contacts())
	if err != nil {
		return model.Employee{}, err
	}

	var out model.Employee
	err = s.tx(ctx, func(q querier) error {
		var positionID any
		if in.PositionID != nil {
			if err := mustExist(ctx, q, EntityPosition, *in.PositionID); err != nil {
				return err
			}
			positionID = *in.PositionID
		}

		var id int64
		err := q.QueryRowContext(ctx, `
			INSERT INTO "Сотрудники" ("ФИО", "Специализация", "Email", "Дата приёма", "Контакты", "Код должности")
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING "Код сотрудника"`,
			in.FullName, in.Specialization, nullable(in.Email), hired.Value(), string(contacts), positionID,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert employee: %w", err)
		}

		out, err = getEmployee(ctx, q, id)
		return err
	})
	return out, err
}

// UpdateEmployee changes only the fields present in u and returns the
// updated row.
func (s *Store) UpdateEmployee(ctx context.Context, id int64, u model.EmployeeUpdate) (model.Employee, error) {
	if u.Empty() {
		return model.Employee{}, ErrNoFields
	}

	var (
		sets []string
		args []any
	)
	set := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf(`"%s" = $%d`, column, len(args)))
	}
	if u.FullName != nil {
		set("ФИО", *u.FullName)
	}
	if u.Specialization != nil {
		set("Специализация", *u.Specialization)
	}
	if u.Email != nil {
		set("Email", nullable(*u.Email))
	}
	if u.Contacts != nil {
		b, err := json.Marshal(u.Contacts)
		if err != nil {
			return model.Employee{}, err
		}
		set("Контакты", string(b))
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE "Сотрудники" SET %s WHERE "Код сотрудника" = $%d`, strings.Join(sets, ", "), len(args))

	var out model.Employee
	err := s.tx(ctx, func(q querier) error {
		res, err := q.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("update employee: %w", err)
		}
		if err := affectedOne(res, EntityEmployee, id); err != nil {
			return err
		}
		out, err = getEmployee(ctx, q, id)
		return err
	})
	return out, err
}

// DeleteEmployee removes an employee.
func (s *Store) DeleteEmployee(ctx context.Context, id int64) error {
	return s.tx(ctx, func(q querier) error {
		res, err := q.ExecContext(ctx, `DELETE FROM "Сотрудники" WHERE "Код сотрудника" = $1`, id)
		if err != nil {
			return fmt.Errorf("delete employee: %w", err)
		}
		return affectedOne(res, EntityEmployee, id)
	})
}

// EmployeeTasks lists the tasks assigned to an employee, newest first.
func (s *Store) EmployeeTasks(ctx context.Context, id int64) ([]model.TaskDetail, error) {
	return queryList(ctx, s.db, scanTask,
		`SELECT `+taskColumns+` WHERE t."Исполнитель" = $1 ORDER BY t."Дата создания" DESC, t."Код задачи" DESC`, id)
}

// EmployeeTaskCount counts the tasks assigned to an employee.
func (s *Store) EmployeeTaskCount(ctx context.Context, id int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM "Задачи" WHERE "Исполнитель" = $1`, id).Scan(&n)
	return n, err
}

// EmployeeProjects lists the projects an employee manages or has tasks in.
func (s *Store) EmployeeProjects(ctx context.Context, id int64) ([]model.Project, error) {
	return queryList(ctx, s.db, scanProject, `SELECT `+projectColumns+`
		WHERE p."Код проекта" IN (SELECT "Код проекта" FROM "Задачи" WHERE "Исполнитель" = $1)
		   OR p."Менеджер проекта" = $1
		ORDER BY p."Дата создания" DESC, p."Код проекта" DESC`, id)
}
