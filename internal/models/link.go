package models

// Link — сохранённая пользователем ссылка.
type Link struct {
	Owned
	Title string `json:"title"`
	URL   string `json:"url"`
}

// LinkInput используется для приёма данных ссылки из JSON-запроса.
type LinkInput struct {
	Title *string `json:"title"`
	URL   *string `json:"url"`
}
