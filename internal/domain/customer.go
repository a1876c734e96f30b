package domain

// Customer is a registered guest. Email is the dedup key: registering the
// same email twice yields the original record.
type Customer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}
