// mappers.go - Column lists and row scanners for every entity.
//
// Each scanner reads the columns of its matching select list in order,
// passes text through rowdecode and substitutes the documented default for
// NULL. Temporal columns are scanned into `any` because legacy rows hold
// dates as text as well as DATE or TIMESTAMP.
package store

import (
	"database/sql"
	"encoding/json"

	"projectdesk/internal/model"
	"projectdesk/internal/rowdecode"
)

// Defaults substituted for NULL columns.
const (
	untitled        = "Без названия"
	noneShort       = "—"
	clientUnset     = "Не указан"
	managerUnset    = "Не назначен"
	fileViewPattern = "/api/files/%d/view"
)

type scanner interface {
	Scan(dest ...any) error
}

func text(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := rowdecode.MustText(ns.String)
	return &s
}

// textOr returns the decoded text, or def when the column is NULL or empty.
func textOr(ns sql.NullString, def string) string {
	if !ns.Valid || ns.String == "" {
		return def
	}
	return rowdecode.MustText(ns.String)
}

func optionalID(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	id := n.Int64
	return &id
}

func intOr(n sql.NullInt64, def int) int {
	if !n.Valid {
		return def
	}
	return int(n.Int64)
}

// jsonBlob decodes a JSON column into a map. Values that are not a JSON
// object are kept under "raw" instead of being dropped.
func jsonBlob(raw []byte) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return map[string]any{"raw": rowdecode.MustText(string(raw))}
	}
	switch x := v.(type) {
	case nil:
		return nil
	case map[string]any:
		return rowdecode.Value(x).(map[string]any)
	case string:
		// Some rows were written with the object already serialized.
		var inner map[string]any
		if err := json.Unmarshal([]byte(x), &inner); err == nil && inner != nil {
			return rowdecode.Value(inner).(map[string]any)
		}
		return map[string]any{"raw": rowdecode.MustText(x)}
	default:
		return map[string]any{"raw": rowdecode.Value(x)}
	}
}

const employeeColumns = `
	e."Код сотрудника", e."ФИО", e."Специализация", e."Email", e."Дата приёма", e."Контакты",
	p."Код должности", p."Наименование должности",
	d."Код отдела", d."Название отдела", d."Описание функций"
FROM "Сотрудники" e
LEFT JOIN "Должности" p ON e."Код должности" = p."Код должности"
LEFT JOIN "Отделы" d ON e."Код отдела" = d."Код отдела"`

func scanEmployee(row scanner) (model.Employee, error) {
	var (
		e                 model.Employee
		name, spec, email sql.NullString
		hired             any
		contacts          []byte
		posID, deptID     sql.NullInt64
		posName, deptName sql.NullString
		deptDesc          sql.NullString
	)
	if err := row.Scan(&e.EmployeeID, &name, &spec, &email, &hired, &contacts,
		&posID, &posName, &deptID, &deptName, &deptDesc); err != nil {
		return model.Employee{}, err
	}
	e.FullName = textOr(name, "")
	e.Specialization = text(spec)
	e.Email = text(email)
	e.HireDate = rowdecode.MustDate(hired)
	e.Contacts = jsonBlob(contacts)
	if e.Contacts == nil {
		e.Contacts = map[string]any{}
	}
	if posID.Valid {
		e.Position = &model.Position{PositionID: posID.Int64, PositionName: textOr(posName, "")}
	}
	if deptID.Valid {
		e.Department = &model.Department{
			DepartmentID:        deptID.Int64,
			DepartmentName:      textOr(deptName, ""),
			FunctionDescription: text(deptDesc),
		}
	}
	return e, nil
}

const projectColumns = `
	p."Код проекта", p."Название проекта", p."Описание", p."Дата начала", p."Дата окончания", p."Статус",
	COALESCE(c."ФИО", c."Компания", '` + noneShort + `'), c."Email", c."Телефон",
	COALESCE(m."ФИО", '` + noneShort + `'), p."Дата создания"
FROM "Проекты" p
LEFT JOIN "Клиенты" c ON p."Код клиента" = c."Код клиента"
LEFT JOIN "Сотрудники" m ON p."Менеджер проекта" = m."Код сотрудника"`

func scanProject(row scanner) (model.Project, error) {
	var (
		p                      model.Project
		name, desc, status     sql.NullString
		client, cEmail, cPhone sql.NullString
		manager                sql.NullString
		start, end, created    any
	)
	if err := row.Scan(&p.ProjectID, &name, &desc, &start, &end, &status,
		&client, &cEmail, &cPhone, &manager, &created); err != nil {
		return model.Project{}, err
	}
	p.ProjectName = textOr(name, untitled)
	p.Description = text(desc)
	p.StartDate = rowdecode.MustDate(start)
	p.EndDate = rowdecode.MustDate(end)
	p.Status = model.ParseProjectStatus(textOr(status, ""))
	p.ClientName = text(client)
	p.ClientEmail = text(cEmail)
	p.ClientPhone = text(cPhone)
	p.ManagerName = text(manager)
	p.CreatedDate = rowdecode.MustDate(created)
	return p, nil
}

const projectDetailColumns = `
	p."Код проекта", p."Название проекта", p."Описание", p."Дата начала", p."Дата окончания", p."Статус",
	COALESCE(c."ФИО", c."Компания", '` + clientUnset + `'), c."Email", c."Телефон",
	COALESCE(m."ФИО", '` + managerUnset + `'), p."Дата создания",
	p."Бюджет", p."Контактная информация"
FROM "Проекты" p
LEFT JOIN "Клиенты" c ON p."Код клиента" = c."Код клиента"
LEFT JOIN "Сотрудники" m ON p."Менеджер проекта" = m."Код сотрудника"`

func scanProjectDetail(row scanner) (model.ProjectDetail, error) {
	var (
		d                      model.ProjectDetail
		name, desc, status     sql.NullString
		client, cEmail, cPhone sql.NullString
		manager                sql.NullString
		start, end, created    any
		budget                 sql.NullFloat64
		contact                []byte
	)
	if err := row.Scan(&d.ProjectID, &name, &desc, &start, &end, &status,
		&client, &cEmail, &cPhone, &manager, &created, &budget, &contact); err != nil {
		return model.ProjectDetail{}, err
	}
	d.ProjectName = textOr(name, untitled)
	d.Description = text(desc)
	d.StartDate = rowdecode.MustDate(start)
	d.EndDate = rowdecode.MustDate(end)
	d.Status = model.ParseProjectStatus(textOr(status, ""))
	d.ClientName = text(client)
	d.ClientEmail = text(cEmail)
	d.ClientPhone = text(cPhone)
	d.ManagerName = text(manager)
	d.CreatedDate = rowdecode.MustDate(created)
	d.Budget = budget.Float64
	d.ContactInfo = jsonBlob(contact)
	return d, nil
}

const taskColumns = `
	t."Код задачи", t."Название задачи", t."Описание", t."Код проекта", p."Название проекта",
	t."Дата начала", t."Дата окончания", t."Статус", t."Приоритет",
	t."Исполнитель", e."ФИО", t."Затраченное время", t."Прогресс"
FROM "Задачи" t
LEFT JOIN "Проекты" p ON t."Код проекта" = p."Код проекта"
LEFT JOIN "Сотрудники" e ON t."Исполнитель" = e."Код сотрудника"`

func scanTask(row scanner) (model.TaskDetail, error) {
	var (
		t                          model.TaskDetail
		name, desc, project        sql.NullString
		status, priority, executor sql.NullString
		projectID, executorID      sql.NullInt64
		spent, progress            sql.NullInt64
		start, end                 any
	)
	if err := row.Scan(&t.TaskID, &name, &desc, &projectID, &project,
		&start, &end, &status, &priority,
		&executorID, &executor, &spent, &progress); err != nil {
		return model.TaskDetail{}, err
	}
	t.TaskName = textOr(name, untitled)
	t.Description = text(desc)
	t.ProjectID = optionalID(projectID)
	t.ProjectName = text(project)
	t.StartDate = rowdecode.MustDate(start)
	t.EndDate = rowdecode.MustDate(end)
	t.Status = model.ParseTaskStatus(textOr(status, ""))
	t.Priority = model.ParsePriority(textOr(priority, ""))
	t.ExecutorID = optionalID(executorID)
	t.ExecutorName = text(executor)
	t.TimeSpent = intOr(spent, 0)
	t.Progress = intOr(progress, 0)
	return t, nil
}

func scanTaskTemplate(row scanner) (model.TaskTemplate, error) {
	var (
		tt         model.TaskTemplate
		name, desc sql.NullString
		priority   sql.NullString
		spent      sql.NullInt64
	)
	if err := row.Scan(&name, &desc, &priority, &spent); err != nil {
		return model.TaskTemplate{}, err
	}
	tt.TaskName = textOr(name, untitled)
	tt.Description = text(desc)
	tt.Priority = model.ParsePriority(textOr(priority, ""))
	tt.TimeSpent = intOr(spent, 0)
	return tt, nil
}

const fileColumns = `f."Код файла", f."Название файла", f."Размер", f."Тип файла", f."Дата загрузки"`

func scanFileInfo(row scanner) (model.FileInfo, error) {
	var (
		f        model.FileInfo
		name     sql.NullString
		size     sql.NullInt64
		mimeType sql.NullString
		uploaded any
	)
	if err := row.Scan(&f.FileID, &name, &size, &mimeType, &uploaded); err != nil {
		return model.FileInfo{}, err
	}
	f.Filename = textOr(name, "")
	f.FilePath = FileViewURL(f.FileID)
	f.Size = size.Int64
	f.FileType = text(mimeType)
	f.UploadDate = rowdecode.MustDate(uploaded)
	return f, nil
}

func scanLink(row scanner) (model.ProjectLink, error) {
	var (
		l                      model.ProjectLink
		title, url, kind, desc sql.NullString
	)
	if err := row.Scan(&l.LinkID, &title, &url, &kind, &desc); err != nil {
		return model.ProjectLink{}, err
	}
	l.Title = textOr(title, model.DefaultLinkTitle)
	l.URL = textOr(url, "")
	l.LinkType = textOr(kind, model.DefaultLinkType)
	l.Description = text(desc)
	return l, nil
}

func scanMember(row scanner) (model.ProjectMember, error) {
	var (
		m                    model.ProjectMember
		name, position, role sql.NullString
		joined               any
	)
	if err := row.Scan(&m.EmployeeID, &name, &position, &role, &joined); err != nil {
		return model.ProjectMember{}, err
	}
	m.FullName = textOr(name, "")
	m.Position = text(position)
	m.Role = model.ParseMemberRole(textOr(role, ""))
	m.JoinDate = rowdecode.MustDate(joined)
	return m, nil
}

func scanStage(row scanner) (model.ProjectStage, error) {
	var (
		s                  model.ProjectStage
		name, desc, status sql.NullString
		order              sql.NullInt64
		start, end         any
	)
	if err := row.Scan(&s.StageID, &name, &desc, &order, &start, &end, &status); err != nil {
		return model.ProjectStage{}, err
	}
	s.StageName = textOr(name, untitled)
	s.Description = text(desc)
	s.Order = intOr(order, model.DefaultStageNo)
	s.StartDate = rowdecode.MustDate(start)
	s.EndDate = rowdecode.MustDate(end)
	s.Status = model.ParseTaskStatus(textOr(status, ""))
	return s, nil
}
