package models

// ServiceRequest categories.
const (
	CategoryAcademic       = "academic"
	CategoryAdministrative = "administrative"
	CategoryFacilities     = "facilities"
	CategorySupport        = "support"
	CategoryOther          = "other"
)

// ServiceRequest statuses.
const (
	RequestPending    = "pending"
	RequestInProgress = "in-progress"
	RequestResolved   = "resolved"
	RequestCancelled  = "cancelled"
)

// ServiceRequest — обращение пользователя в службы университета.
type ServiceRequest struct {
	Owned
	Name         string `json:"name"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Status       string `json:"status"`
	Priority     string `json:"priority"`
	ContactEmail string `json:"contactEmail"`
	Notes        string `json:"notes"`
}

// ServiceRequestInput используется для приёма данных заявки из JSON-запроса.
type ServiceRequestInput struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	Category     *string `json:"category" validate:"omitempty,oneof=academic administrative facilities support other"`
	Status       *string `json:"status" validate:"omitempty,oneof=pending in-progress resolved cancelled"`
	Priority     *string `json:"priority" validate:"omitempty,oneof=low medium high"`
	ContactEmail *string `json:"contactEmail" validate:"omitempty,contact_email"`
	Notes        *string `json:"notes"`
}
