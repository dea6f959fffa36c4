package models

import "time"

// Owned содержит поля, общие для всех ресурсов, принадлежащих пользователю.
// Owner выставляется один раз при создании и больше не меняется.
type Owned struct {
	ID        string    `json:"id"`
	Owner     string    `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Meta возвращает общие поля ресурса.
func (o *Owned) Meta() *Owned {
	return o
}

// Record — ресурс с владельцем. Реализуется указателями на Task, Note, Link и ServiceRequest.
type Record interface {
	Meta() *Owned
}

// Priority values shared by Task and ServiceRequest.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)
