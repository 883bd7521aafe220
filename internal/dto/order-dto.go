package dto

// CreateOrderDTO - нормализованный результат валидации тела POST /orders.
// Номер и статус клиент задавать не может, они выставляются сервером.
type CreateOrderDTO struct {
	EquipmentType    string `json:"equipment_type"`
	EquipmentID      string `json:"equipment_id"`
	IssueDescription string `json:"issue_description"`
	Priority         string `json:"priority"`
	RequesterName    string `json:"requester_name"`
	Department       string `json:"department"`
	ContactPhone     string `json:"contact_phone"`
	ContactEmail     string `json:"contact_email"`
}

type UpdateOrderStatusDTO struct {
	Status string `json:"status" validate:"required,order_status"`
}

type OrderFilterDTO struct {
	Priority   *string
	Status     *string
	Department *string
}

type OrderDTO struct {
	ID               int64   `json:"id"`
	OrderNumber      string  `json:"order_number"`
	EquipmentType    string  `json:"equipment_type"`
	EquipmentID      string  `json:"equipment_id"`
	IssueDescription string  `json:"issue_description"`
	Priority         string  `json:"priority"`
	Status           string  `json:"status"`
	RequesterName    string  `json:"requester_name"`
	Department       string  `json:"department"`
	ContactPhone     string  `json:"contact_phone"`
	ContactEmail     string  `json:"contact_email"`
	CompletedAt      *string `json:"completed_at,omitempty"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

type OrderListDTO struct {
	Orders []OrderDTO `json:"orders"`
	Total  uint64     `json:"total"`
}
