package customers

import "time"

// Customer is a quoting counterparty. Quotes reference customers and block
// their deletion while referenced.
type Customer struct {
	ID            int64     `json:"id"`
	CompanyName   string    `json:"company_name"`
	ContactPerson string    `json:"contact_person"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
