package resource

import (
	"net/url"
	"strings"
	"time"

	"github.com/magabrotheeeer/campushub/internal/models"
)

var (
	priorities      = []string{models.PriorityLow, models.PriorityMedium, models.PriorityHigh}
	taskStatuses    = []string{models.TaskPending, models.TaskInProgress, models.TaskCompleted}
	requestStatuses = []string{models.RequestPending, models.RequestInProgress, models.RequestResolved, models.RequestCancelled}
	categories      = []string{
		models.CategoryAcademic, models.CategoryAdministrative, models.CategoryFacilities,
		models.CategorySupport, models.CategoryOther,
	}
)

// dateLayouts — принимаемые форматы дедлайна задачи.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// TaskKind — задачи с дедлайном. Завершённую задачу можно снова открыть.
var TaskKind = Kind[*models.Task, models.TaskInput]{
	Name: "task",
	Filters: map[string][]string{
		"status":   taskStatuses,
		"priority": priorities,
	},
	Build: func(owner string, in models.TaskInput) (*models.Task, error) {
		if blank(in.Title) || blank(in.DueDate) {
			return nil, models.Invalid("Please provide title and due date")
		}
		due, err := parseDate(*in.DueDate)
		if err != nil {
			return nil, err
		}
		return &models.Task{
			Owned:    models.Owned{Owner: owner},
			Title:    strings.TrimSpace(*in.Title),
			Course:   trimmed(in.Course),
			DueDate:  due,
			Priority: orDefault(in.Priority, models.PriorityMedium),
			Status:   orDefault(in.Status, models.TaskPending),
		}, nil
	},
	Apply: func(t *models.Task, in models.TaskInput) error {
		if in.Title != nil {
			if blank(in.Title) {
				return models.Invalid("Task title is required")
			}
			t.Title = strings.TrimSpace(*in.Title)
		}
		if in.Course != nil {
			t.Course = strings.TrimSpace(*in.Course)
		}
		if in.DueDate != nil {
			if blank(in.DueDate) {
				return models.Invalid("Due date is required")
			}
			due, err := parseDate(*in.DueDate)
			if err != nil {
				return err
			}
			t.DueDate = due
		}
		if err := setEnum(&t.Priority, in.Priority, "priority", priorities); err != nil {
			return err
		}
		return setEnum(&t.Status, in.Status, "status", taskStatuses)
	},
}

// NoteKind — заметки.
var NoteKind = Kind[*models.Note, models.NoteInput]{
	Name: "note",
	Build: func(owner string, in models.NoteInput) (*models.Note, error) {
		if blank(in.Title) {
			return nil, models.Invalid("Please provide a title")
		}
		content := ""
		if in.Content != nil {
			content = *in.Content
		}
		return &models.Note{
			Owned:   models.Owned{Owner: owner},
			Title:   strings.TrimSpace(*in.Title),
			Content: content,
		}, nil
	},
	Apply: func(n *models.Note, in models.NoteInput) error {
		if in.Title != nil {
			if blank(in.Title) {
				return models.Invalid("Note title is required")
			}
			n.Title = strings.TrimSpace(*in.Title)
		}
		if in.Content != nil {
			n.Content = *in.Content
		}
		return nil
	},
}

// LinkKind — ссылки. Адрес без схемы http(s) дополняется https://.
var LinkKind = Kind[*models.Link, models.LinkInput]{
	Name: "link",
	Build: func(owner string, in models.LinkInput) (*models.Link, error) {
		if blank(in.Title) || blank(in.URL) {
			return nil, models.Invalid("Please provide title and URL")
		}
		u, err := NormalizeURL(*in.URL)
		if err != nil {
			return nil, err
		}
		return &models.Link{
			Owned: models.Owned{Owner: owner},
			Title: strings.TrimSpace(*in.Title),
			URL:   u,
		}, nil
	},
	Apply: func(l *models.Link, in models.LinkInput) error {
		if in.Title != nil {
			if blank(in.Title) {
				return models.Invalid("Link title is required")
			}
			l.Title = strings.TrimSpace(*in.Title)
		}
		if in.URL != nil {
			if blank(in.URL) {
				return models.Invalid("URL is required")
			}
			u, err := NormalizeURL(*in.URL)
			if err != nil {
				return err
			}
			l.URL = u
		}
		return nil
	},
}

// ServiceRequestKind — заявки в службы университета.
var ServiceRequestKind = Kind[*models.ServiceRequest, models.ServiceRequestInput]{
	Name: "service",
	Filters: map[string][]string{
		"status":   requestStatuses,
		"category": categories,
		"priority": priorities,
	},
	Build: func(owner string, in models.ServiceRequestInput) (*models.ServiceRequest, error) {
		if blank(in.Name) {
			return nil, models.Invalid("Please provide a service name")
		}
		return &models.ServiceRequest{
			Owned:        models.Owned{Owner: owner},
			Name:         strings.TrimSpace(*in.Name),
			Description:  trimmed(in.Description),
			Category:     orDefault(in.Category, models.CategoryOther),
			Status:       orDefault(in.Status, models.RequestPending),
			Priority:     orDefault(in.Priority, models.PriorityMedium),
			ContactEmail: trimmed(in.ContactEmail),
			Notes:        trimmed(in.Notes),
		}, nil
	},
	Apply: func(s *models.ServiceRequest, in models.ServiceRequestInput) error {
		if in.Name != nil {
			if blank(in.Name) {
				return models.Invalid("Service name is required")
			}
			s.Name = strings.TrimSpace(*in.Name)
		}
		if in.Description != nil {
			s.Description = strings.TrimSpace(*in.Description)
		}
		if in.ContactEmail != nil {
			s.ContactEmail = strings.TrimSpace(*in.ContactEmail)
		}
		if in.Notes != nil {
			s.Notes = strings.TrimSpace(*in.Notes)
		}
		if err := setEnum(&s.Category, in.Category, "category", categories); err != nil {
			return err
		}
		if err := setEnum(&s.Status, in.Status, "status", requestStatuses); err != nil {
			return err
		}
		return setEnum(&s.Priority, in.Priority, "priority", priorities)
	},
}

// NormalizeURL обрезает пробелы, дописывает https:// к адресу без схемы http(s)
// и проверяет, что результат — абсолютный адрес с хостом.
func NormalizeURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" || strings.ContainsAny(u.Host, " \t") {
		return "", models.Invalid("Please enter a valid URL")
	}
	return s, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, models.Invalid("Invalid due date: %s", raw)
}

func blank(v *string) bool {
	return v == nil || strings.TrimSpace(*v) == ""
}

func trimmed(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

// orDefault возвращает значение поля или def, если поле не передано.
// Допустимость значения, в том числе запрет пустой строки, уже проверена валидатором.
func orDefault(v *string, def string) string {
	if v == nil {
		return def
	}
	return *v
}

// setEnum присваивает переданное значение перечислимого поля. Пустая строка недопустима.
func setEnum(dst *string, v *string, field string, allowed []string) error {
	if v == nil {
		return nil
	}
	for _, a := range allowed {
		if *v == a {
			*dst = *v
			return nil
		}
	}
	return models.Invalid("field %s must be one of: %s", field, strings.Join(allowed, ", "))
}
