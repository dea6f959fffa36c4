package models

// Note — заметка пользователя.
type Note struct {
	Owned
	Title   string `json:"title"`
	Content string `json:"content"`
}

// NoteInput используется для приёма данных заметки из JSON-запроса.
type NoteInput struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}
