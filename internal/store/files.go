package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"projectdesk/internal/model"
)

// FileViewURL is the API path that streams a stored file.
func FileViewURL(id int64) string {
	return fmt.Sprintf(fileViewPattern, id)
}

// TaskExists returns a NotFoundError when the task is absent.
func (s *Store) TaskExists(ctx context.Context, id int64) error {
	return mustExist(ctx, s.db, EntityTask, id)
}

// ProjectExists returns a NotFoundError when the project is absent.
func (s *Store) ProjectExists(ctx context.Context, id int64) error {
	return mustExist(ctx, s.db, EntityProject, id)
}

func insertFile(ctx context.Context, q querier, f model.NewFile) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, `
		INSERT INTO "Файлы" ("Название файла", "Путь к файлу", "Размер", "Тип файла", "Код пользователя", "Дата загрузки")
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
		RETURNING "Код файла"`,
		f.Filename, f.StoredPath, f.Size, nullable(f.ContentType), f.UploaderID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert file: %w", err)
	}
	return id, nil
}

// AttachTaskFile records an uploaded file and links it to a task in one
// transaction.
func (s *Store) AttachTaskFile(ctx context.Context, taskID int64, f model.NewFile) (int64, error) {
	var id int64
	err := s.tx(ctx, func(q querier) error {
		if err := mustExist(ctx, q, EntityTask, taskID); err != nil {
			return err
		}
		var err error
		if id, err = insertFile(ctx, q, f); err != nil {
			return err
		}
		_, err = q.ExecContext(ctx, `INSERT INTO "Файлы задач" ("Код задачи", "Код файла") VALUES ($1, $2)`, taskID, id)
		if err != nil {
			return fmt.Errorf("link task file: %w", err)
		}
		return nil
	})
	return id, err
}

// AttachProjectFile records an uploaded file and links it to a project in
// one transaction.
func (s *Store) AttachProjectFile(ctx context.Context, projectID int64, f model.NewFile) (int64, error) {
	var id int64
	err := s.tx(ctx, func(q querier) error {
		if err := mustExist(ctx, q, EntityProject, projectID); err != nil {
			return err
		}
		var err error
		if id, err = insertFile(ctx, q, f); err != nil {
			return err
		}
		_, err = q.ExecContext(ctx, `INSERT INTO "Файлы проекта" ("Код проекта", "Код файла") VALUES ($1, $2)`, projectID, id)
		if err != nil {
			return fmt.Errorf("link project file: %w", err)
		}
		return nil
	})
	return id, err
}

// TaskFiles lists the files of a task, newest first. An absent task is a
// NotFoundError rather than an empty list.
func (s *Store) TaskFiles(ctx context.Context, taskID int64) ([]model.FileInfo, error) {
	if err := s.TaskExists(ctx, taskID); err != nil {
		return nil, err
	}
	return queryList(ctx, s.db, scanFileInfo, `
		SELECT `+fileColumns+`
		FROM "Файлы" f
		JOIN "Файлы задач" ft ON f."Код файла" = ft."Код файла"
		WHERE ft."Код задачи" = $1
		ORDER BY f."Дата загрузки" DESC, f."Код файла" DESC`, taskID)
}

// ProjectFiles lists the files of a project, newest first.
func (s *Store) ProjectFiles(ctx context.Context, projectID int64) ([]model.FileInfo, error) {
	return queryList(ctx, s.db, scanFileInfo, `
		SELECT `+fileColumns+`
		FROM "Файлы" f
		JOIN "Файлы проекта" fp ON f."Код файла" = fp."Код файла"
		WHERE fp."Код проекта" = $1
		ORDER BY f."Дата загрузки" DESC, f."Код файла" DESC`, projectID)
}

// File loads the metadata needed to stream a file.
func (s *Store) File(ctx context.Context, id int64) (model.FileRecord, error) {
	var (
		rec              model.FileRecord
		name, path, kind sql.NullString
		size             sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT "Код файла", "Название файла", "Путь к файлу", "Тип файла", "Размер"
		FROM "Файлы"
		WHERE "Код файла" = $1`, id).Scan(&rec.FileID, &name, &path, &kind, &size)
	if errors.Is(err, sql.ErrNoRows) {
		return model.FileRecord{}, notFound(EntityFile, id)
	}
	if err != nil {
		return model.FileRecord{}, err
	}
	rec.Filename = textOr(name, "")
	rec.StoredPath = path.String
	rec.ContentType = textOr(kind, "")
	rec.Size = size.Int64
	return rec, nil
}
