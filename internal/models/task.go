package models

import "time"

// Task statuses.
const (
	TaskPending    = "pending"
	TaskInProgress = "in-progress"
	TaskCompleted  = "completed"
)

// Task — учебная задача с дедлайном.
type Task struct {
	Owned
	Title    string    `json:"title"`
	Course   string    `json:"course"`
	DueDate  time.Time `json:"dueDate"`
	Priority string    `json:"priority"`
	Status   string    `json:"status"`
}

// TaskInput используется для приёма данных задачи из JSON-запроса.
// Отсутствующее поле остаётся nil, что отличает его от пустой строки при частичном обновлении.
// Дата приходит строкой в формате 2006-01-02 или RFC 3339.
type TaskInput struct {
	Title    *string `json:"title"`
	Course   *string `json:"course"`
	DueDate  *string `json:"dueDate"`
	Priority *string `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status   *string `json:"status" validate:"omitempty,oneof=pending in-progress completed"`
}
