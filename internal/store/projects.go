package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"projectdesk/internal/model"
)

// ListProjects returns every project, newest first.
func (s *Store) ListProjects(ctx context.Context) ([]model.Project, error) {
	return queryList(ctx, s.db, scanProject,
		`SELECT `+projectColumns+` ORDER BY p."Дата создания" DESC, p."Код проекта" DESC`)
}

// ArchivedProjects returns projects whose status is archived.
func (s *Store) ArchivedProjects(ctx context.Context) ([]model.Project, error) {
	return queryList(ctx, s.db, scanProject,
		`SELECT `+projectColumns+` WHERE p."Статус" = $1 ORDER BY p."Дата создания" DESC, p."Код проекта" DESC`,
		string(model.ProjectArchived))
}

func getProject(ctx context.Context, q querier, id int64) (model.Project, error) {
	p, err := scanProject(q.QueryRowContext(ctx, `SELECT `+projectColumns+` WHERE p."Код проекта" = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Project{}, notFound(EntityProject, id)
	}
	return p, err
}

// ProjectDetail loads one project with budget and contact info.
func (s *Store) ProjectDetail(ctx context.Context, id int64) (model.ProjectDetail, error) {
	d, err := scanProjectDetail(s.db.QueryRowContext(ctx, `SELECT `+projectDetailColumns+` WHERE p."Код проекта" = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.ProjectDetail{}, notFound(EntityProject, id)
	}
	return d, err
}

// findOrCreateClient returns the id of the client with this name and
// email, inserting one when none exists. Emails are compared null-safely
// so that clients without an email are found again.
func findOrCreateClient(ctx context.Context, q querier, name, email, phone string) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, `
		SELECT "Код клиента" FROM "Клиенты"
		WHERE "ФИО" = $1 AND "Email" IS NOT DISTINCT FROM $2
		ORDER BY "Код клиента"
		LIMIT 1`, name, nullable(email)).Scan(&id)
	switch {
	case err == nil:
		return id, nil
	case !errors.Is(err, sql.ErrNoRows):
		return 0, fmt.Errorf("find client: %w", err)
	}

	err = q.QueryRowContext(ctx, `
		INSERT INTO "Клиенты" ("ФИО", "Email", "Телефон", "Компания")
		VALUES ($1, $2, $3, NULL)
		RETURNING "Код клиента"`, name, nullable(email), nullable(phone)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert client: %w", err)
	}
	return id, nil
}

// CreateProject checks the manager, finds or creates the client and
// inserts the project.
func (s *Store) CreateProject(ctx context.Context, in model.NewProject) (model.Project, error) {
	var contact any
	if info := in.ContactInfo(); info != nil {
		b, err := json.Marshal(info)
		if err != nil {
			return model.Project{}, err
		}
		contact = string(b)
	}

	var out model.Project
	err := s.tx(ctx, func(q querier) error {
		if err := mustExist(ctx, q, EntityEmployee, in.ManagerID); err != nil {
			return err
		}
		clientID, err := findOrCreateClient(ctx, q, in.ClientName, in.ClientEmail, in.ClientPhone)
		if err != nil {
			return err
		}

		var id int64
		err = q.QueryRowContext(ctx, `
			INSERT INTO "Проекты" (
				"Название проекта", "Описание", "Код клиента", "Контактная информация",
				"Дата начала", "Дата окончания", "Статус", "Бюджет", "Менеджер проекта", "Дата создания"
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, CURRENT_TIMESTAMP)
			RETURNING "Код проекта"`,
			in.ProjectName, nullable(in.Description), clientID, contact,
			in.StartDate.Value(), in.EndDate.Value(), string(in.Status), in.Budget, in.ManagerID,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert project: %w", err)
		}

		out, err = getProject(ctx, q, id)
		return err
	})
	return out, err
}

// UpdateProjectStatus sets the status of a project.
func (s *Store) UpdateProjectStatus(ctx context.Context, id int64, status model.ProjectStatus) error {
	return s.tx(ctx, func(q querier) error {
		res, err := q.ExecContext(ctx, `UPDATE "Проекты" SET "Статус" = $1 WHERE "Код проекта" = $2`, string(status), id)
		if err != nil {
			return fmt.Errorf("update project status: %w", err)
		}
		return affectedOne(res, EntityProject, id)
	})
}

// ProjectTasks lists the tasks of a project, newest first.
func (s *Store) ProjectTasks(ctx context.Context, id int64) ([]model.TaskDetail, error) {
	return queryList(ctx, s.db, scanTask,
		`SELECT `+taskColumns+` WHERE t."Код проекта" = $1 ORDER BY t."Дата создания" DESC, t."Код задачи" DESC`, id)
}

// AddLink attaches an external material to a project. The link must have
// passed NewLink.ApplyDefaults.
func (s *Store) AddLink(ctx context.Context, projectID int64, in model.NewLink) (model.ProjectLink, error) {
	out := model.ProjectLink{Title: in.Title, URL: in.URL, LinkType: in.Type}
	if in.Description != "" {
		desc := in.Description
		out.Description = &desc
	}
	err := s.tx(ctx, func(q querier) error {
		if err := mustExist(ctx, q, EntityProject, projectID); err != nil {
			return err
		}
		err := q.QueryRowContext(ctx, `
			INSERT INTO "Ссылки проекта" ("Код проекта", "Название", "URL", "Тип", "Описание")
			VALUES ($1, $2, $3, $4, $5)
			RETURNING "Код ссылки"`,
			projectID, in.Title, in.URL, in.Type, nullable(in.Description),
		).Scan(&out.LinkID)
		if err != nil {
			return fmt.Errorf("insert link: %w", err)
		}
		return nil
	})
	return out, err
}

// ProjectLinks lists the materials of a project in insertion order.
func (s *Store) ProjectLinks(ctx context.Context, projectID int64) ([]model.ProjectLink, error) {
	return queryList(ctx, s.db, scanLink, `
		SELECT "Код ссылки", "Название", "URL", "Тип", "Описание"
		FROM "Ссылки проекта"
		WHERE "Код проекта" = $1
		ORDER BY "Код ссылки"`, projectID)
}

// AddMember links an employee to a project. Adding a pair that is already
// linked changes nothing and reports AlreadyExists with the existing id.
func (s *Store) AddMember(ctx context.Context, projectID, employeeID int64, role model.MemberRole) (model.Membership, error) {
	if role == "" {
		role = model.RoleMember
	}
	var out model.Membership
	err := s.tx(ctx, func(q querier) error {
		if err := mustExist(ctx, q, EntityProject, projectID); err != nil {
			return err
		}
		if err := mustExist(ctx, q, EntityEmployee, employeeID); err != nil {
			return err
		}

		existing, err := memberID(ctx, q, projectID, employeeID)
		if err != nil {
			return err
		}
		if existing != 0 {
			out = model.Membership{MemberID: existing, AlreadyExists: true}
			return nil
		}

		// ON CONFLICT covers a concurrent insert of the same pair between
		// the lookup above and this statement.
		err = q.QueryRowContext(ctx, `
			INSERT INTO "Участники проекта" ("Код проекта", "Код сотрудника", "Роль в проекте", "Дата присоединения")
			VALUES ($1, $2, $3, CURRENT_DATE)
			ON CONFLICT ("Код проекта", "Код сотрудника") DO NOTHING
			RETURNING "Код участника"`,
			projectID, employeeID, string(role),
		).Scan(&out.MemberID)
		if errors.Is(err, sql.ErrNoRows) {
			out.MemberID, err = memberID(ctx, q, projectID, employeeID)
			out.AlreadyExists = true
		}
		if err != nil {
			return fmt.Errorf("insert member: %w", err)
		}
		return nil
	})
	return out, err
}

func memberID(ctx context.Context, q querier, projectID, employeeID int64) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, `
		SELECT "Код участника" FROM "Участники проекта"
		WHERE "Код проекта" = $1 AND "Код сотрудника" = $2
		ORDER BY "Код участника"
		LIMIT 1`, projectID, employeeID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("find member: %w", err)
	}
	return id, nil
}

// ProjectMembers lists the employees linked to a project.
func (s *Store) ProjectMembers(ctx context.Context, projectID int64) ([]model.ProjectMember, error) {
	return queryList(ctx, s.db, scanMember, `
		SELECT e."Код сотрудника", e."ФИО", p."Наименование должности", up."Роль в проекте", up."Дата присоединения"
		FROM "Участники проекта" up
		JOIN "Сотрудники" e ON up."Код сотрудника" = e."Код сотрудника"
		LEFT JOIN "Должности" p ON e."Код должности" = p."Код должности"
		WHERE up."Код проекта" = $1
		ORDER BY e."ФИО", e."Код сотрудника"`, projectID)
}

// AddStage inserts a stage. The stage must have passed
// NewStage.ApplyDefaults.
func (s *Store) AddStage(ctx context.Context, projectID int64, in model.NewStage) (int64, error) {
	var id int64
	err := s.tx(ctx, func(q querier) error {
		if err := mustExist(ctx, q, EntityProject, projectID); err != nil {
			return err
		}
		err := q.QueryRowContext(ctx, `
			INSERT INTO "Этапы проекта" (
				"Код проекта", "Название этапа", "Описание", "Порядковый номер",
				"Дата начала", "Дата окончания", "Статус"
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING "Код этапа"`,
			projectID, in.Title, nullable(in.Description), in.Order,
			in.StartDate.Value(), in.EndDate.Value(), string(in.Status),
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert stage: %w", err)
		}
		return nil
	})
	return id, err
}

// ProjectStages lists the stages of a project by sequence number.
func (s *Store) ProjectStages(ctx context.Context, projectID int64) ([]model.ProjectStage, error) {
	return queryList(ctx, s.db, scanStage, `
		SELECT "Код этапа", "Название этапа", "Описание", "Порядковый номер",
		       "Дата начала", "Дата окончания", "Статус"
		FROM "Этапы проекта"
		WHERE "Код проекта" = $1
		ORDER BY "Порядковый номер", "Код этапа"`, projectID)
}
