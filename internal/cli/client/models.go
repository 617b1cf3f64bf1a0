package client

import (
	"encoding/json"
	"fmt"
)

// User is the profile returned by /api/user/me
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Role     string `json:"user_roles"`
	FullName string `json:"full_name"`
}

// Customer is a client of the company (a debtor)
type Customer struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Balance   string `json:"balanse"`
	Company   string `json:"company,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// CustomerRef is a debt's customer. The API sends either the bare id or
// the nested object depending on the endpoint.
type CustomerRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

func (r *CustomerRef) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		r.ID = id
		return nil
	}

	var obj Customer
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("client reference is neither an id nor an object: %s", string(data))
	}
	r.ID = obj.ID
	r.Name = obj.Name
	return nil
}

// Debt represents an outstanding amount owed by a customer
type Debt struct {
	ID              int         `json:"id"`
	Customer        CustomerRef `json:"client"`
	TotalAmount     string      `json:"total_amount"`
	RemainingAmount string      `json:"remaining_amount"`
	DueDate         string      `json:"due_date"`
	IsPaid          bool        `json:"is_paid"`
}

// CustomerDebts is a customer with all of its debts
type CustomerDebts struct {
	Customer Customer `json:"client"`
	Debts    []Debt   `json:"debts"`
}

// Payment represents an amount paid against a debt
type Payment struct {
	ID              string `json:"id"`
	Debt            int    `json:"debt"`
	Amount          string `json:"amount"`
	User            string `json:"user,omitempty"`
	UserEmail       string `json:"user_email,omitempty"`
	DebtTotalAmount string `json:"debt_total_amount,omitempty"`
	CreatedAt       string `json:"created_at,omitempty"`
}
