package customers

type UpsertCustomerRequest struct {
	CompanyName   string `json:"company_name" validate:"required,max=200"`
	ContactPerson string `json:"contact_person" validate:"max=200"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone" validate:"max=50"`
	Address       string `json:"address" validate:"max=500"`
}

type ListCustomersRequest struct {
	Search string
}
