package storage

import "github.com/magabrotheeeer/campushub/internal/models"

// TaskSchema — задачи, по возрастанию дедлайна.
var TaskSchema = Schema[*models.Task]{
	Table:   "tasks",
	Columns: []string{"title", "course", "due_date", "priority", "status"},
	OrderBy: "due_date ASC, created_at DESC",
	Filters: []string{"status", "priority"},
	New:     func() *models.Task { return &models.Task{} },
	Fields: func(t *models.Task) []any {
		return []any{&t.Title, &t.Course, &t.DueDate, &t.Priority, &t.Status}
	},
}

// NoteSchema — заметки, новые сначала.
var NoteSchema = Schema[*models.Note]{
	Table:   "notes",
	Columns: []string{"title", "content"},
	OrderBy: "created_at DESC",
	New:     func() *models.Note { return &models.Note{} },
	Fields: func(n *models.Note) []any {
		return []any{&n.Title, &n.Content}
	},
}

// LinkSchema — ссылки, новые сначала.
var LinkSchema = Schema[*models.Link]{
	Table:   "links",
	Columns: []string{"title", "url"},
	OrderBy: "created_at DESC",
	New:     func() *models.Link { return &models.Link{} },
	Fields: func(l *models.Link) []any {
		return []any{&l.Title, &l.URL}
	},
}

// ServiceRequestSchema — заявки, новые сначала.
var ServiceRequestSchema = Schema[*models.ServiceRequest]{
	Table:   "services",
	Columns: []string{"name", "description", "category", "status", "priority", "contact_email", "notes"},
	OrderBy: "created_at DESC",
	Filters: []string{"status", "category", "priority"},
	New:     func() *models.ServiceRequest { return &models.ServiceRequest{} },
	Fields: func(s *models.ServiceRequest) []any {
		return []any{&s.Name, &s.Description, &s.Category, &s.Status, &s.Priority, &s.ContactEmail, &s.Notes}
	},
}
