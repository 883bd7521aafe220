package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Order - заявка на обслуживание или ремонт оборудования.
type Order struct {
	ID               int64     `json:"id"`
	OrderNumber      string    `json:"order_number"`
	EquipmentType    string    `json:"equipment_type"`
	EquipmentID      string    `json:"equipment_id"`
	IssueDescription string    `json:"issue_description"`
	Priority         string    `json:"priority"`
	Status           string    `json:"status"`
	RequesterName    string    `json:"requester_name"`
	Department       string    `json:"department"`
	ContactPhone     string    `json:"contact_phone"`
	ContactEmail     string    `json:"contact_email"`
	CompletedAt      null.Time `json:"completed_at"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
