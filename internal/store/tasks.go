package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"projectdesk/internal/model"
)

func getTask(ctx context.Context, q querier, id int64) (model.TaskDetail, error) {
	t, err := scanTask(q.QueryRowContext(ctx, `SELECT `+taskColumns+` WHERE t."Код задачи" = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.TaskDetail{}, notFound(EntityTask, id)
	}
	return t, err
}

// GetTask loads one task.
func (s *Store) GetTask(ctx context.Context, id int64) (model.TaskDetail, error) {
	return getTask(ctx, s.db, id)
}

// CreateTask inserts a task once both its executor and its project are
// known to exist. The executor is recorded as the creator as well. The
// task must have passed NewTask.ApplyDefaults.
func (s *Store) CreateTask(ctx context.Context, in model.NewTask) (model.TaskDetail, error) {
	var out model.TaskDetail
	err := s.tx(ctx, func(q querier) error {
		if err := mustExist(ctx, q, EntityEmployee, in.ExecutorID); err != nil {
			return err
		}
		if err := mustExist(ctx, q, EntityProject, in.ProjectID); err != nil {
			return err
		}

		var id int64
		err := q.QueryRowContext(ctx, `
			INSERT INTO "Задачи" (
				"Название задачи", "Описание", "Код проекта", "Исполнитель", "Создатель",
				"Дата начала", "Дата окончания", "Статус", "Приоритет", "Дата создания"
			)
			VALUES ($1, $2, $3, $4, $4, $5, $6, $7, $8, CURRENT_TIMESTAMP)
			RETURNING "Код задачи"`,
			in.TaskName, nullable(in.Description), in.ProjectID, in.ExecutorID,
			in.StartDate.Value(), in.EndDate.Value(), string(in.Status), string(in.Priority),
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert task: %w", err)
		}

		out, err = getTask(ctx, q, id)
		return err
	})
	return out, err
}

// UpdateTaskStatus sets the status of a task.
func (s *Store) UpdateTaskStatus(ctx context.Context, id int64, status model.TaskStatus) error {
	return s.tx(ctx, func(q querier) error {
		res, err := q.ExecContext(ctx, `UPDATE "Задачи" SET "Статус" = $1 WHERE "Код задачи" = $2`, string(status), id)
		if err != nil {
			return fmt.Errorf("update task status: %w", err)
		}
		return affectedOne(res, EntityTask, id)
	})
}

// TaskTemplates returns up to 20 distinct task shapes taken from tasks
// that belong to no project.
func (s *Store) TaskTemplates(ctx context.Context) ([]model.TaskTemplate, error) {
	return queryList(ctx, s.db, scanTaskTemplate, `
		SELECT DISTINCT "Название задачи", "Описание", "Приоритет", "Затраченное время"
		FROM "Задачи"
		WHERE "Код проекта" IS NULL
		ORDER BY "Название задачи"
		LIMIT 20`)
}
