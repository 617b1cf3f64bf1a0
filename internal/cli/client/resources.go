package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Debt list filters understood by the API
const (
	DebtFilterAll     = "all"
	DebtFilterOverdue = "overdue"
)

// CreateCustomerRequest represents the client creation request
type CreateCustomerRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Phone   string `json:"phone" validate:"required,max=20"`
	Balance string `json:"balanse,omitempty" validate:"omitempty,nonneg_decimal"`
}

// CreateDebtRequest represents the debt creation request
type CreateDebtRequest struct {
	Customer    string `json:"client" validate:"required"`
	TotalAmount string `json:"total_amount" validate:"required,nonneg_decimal"`
	DueDate     string `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateDebtRequest represents a partial debt update.
// The API requires the amount on every write.
type UpdateDebtRequest struct {
	Customer    string `json:"client,omitempty"`
	TotalAmount string `json:"total_amount" validate:"required,nonneg_decimal"`
	DueDate     string `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// CreatePaymentRequest represents the payment creation request
type CreatePaymentRequest struct {
	Debt   int    `json:"debt" validate:"required,gt=0"`
	Amount string `json:"amount" validate:"required,pos_decimal"`
}

// ListCustomers returns the customers of the user's company
func (c *Client) ListCustomers(ctx context.Context) ([]Customer, error) {
	var customers []Customer
	if err := c.do(ctx, "list clients", http.MethodGet, "/api/clients/", nil, http.StatusOK, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// CreateCustomer adds a customer to the user's company
func (c *Client) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*Customer, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var customer Customer
	if err := c.do(ctx, "create client", http.MethodPost, "/api/clients/", req, http.StatusCreated, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// ListCustomerDebts returns one customer together with its debts
func (c *Client) ListCustomerDebts(ctx context.Context, customerID string) (*CustomerDebts, error) {
	var resp CustomerDebts
	path := fmt.Sprintf("/api/clients/%s/debts/", url.PathEscape(customerID))
	if err := c.do(ctx, "list client debts", http.MethodGet, path, nil, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListDebts returns debts, optionally only the overdue ones
func (c *Client) ListDebts(ctx context.Context, filter string) ([]Debt, error) {
	path := "/api/debts/"
	if filter != "" {
		if filter != DebtFilterAll && filter != DebtFilterOverdue {
			return nil, fmt.Errorf("invalid debt filter %q (use %s or %s)", filter, DebtFilterAll, DebtFilterOverdue)
		}
		path += "?" + url.Values{"filter": {filter}}.Encode()
	}

	var debts []Debt
	if err := c.do(ctx, "list debts", http.MethodGet, path, nil, http.StatusOK, &debts); err != nil {
		return nil, err
	}
	return debts, nil
}

// GetDebt returns a debt by ID
func (c *Client) GetDebt(ctx context.Context, id int) (*Debt, error) {
	var debt Debt
	if err := c.do(ctx, "get debt", http.MethodGet, fmt.Sprintf("/api/debts/%d/", id), nil, http.StatusOK, &debt); err != nil {
		return nil, err
	}
	return &debt, nil
}

// CreateDebt records a new debt for a customer
func (c *Client) CreateDebt(ctx context.Context, req CreateDebtRequest) (*Debt, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var debt Debt
	if err := c.do(ctx, "create debt", http.MethodPost, "/api/debts/", req, http.StatusCreated, &debt); err != nil {
		return nil, err
	}
	return &debt, nil
}

// UpdateDebt changes the amount, due date or customer of a debt
func (c *Client) UpdateDebt(ctx context.Context, id int, req UpdateDebtRequest) (*Debt, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var debt Debt
	if err := c.do(ctx, "update debt", http.MethodPatch, fmt.Sprintf("/api/debts/%d/", id), req, http.StatusOK, &debt); err != nil {
		return nil, err
	}
	return &debt, nil
}

// DeleteDebt deletes a debt by ID
func (c *Client) DeleteDebt(ctx context.Context, id int) error {
	return c.do(ctx, "delete debt", http.MethodDelete, fmt.Sprintf("/api/debts/%d/", id), nil, http.StatusNoContent, nil)
}

// ListDebtPayments returns the payments made against one debt
func (c *Client) ListDebtPayments(ctx context.Context, debtID int) ([]Payment, error) {
	var payments []Payment
	path := fmt.Sprintf("/api/debts/%d/payments/", debtID)
	if err := c.do(ctx, "list debt payments", http.MethodGet, path, nil, http.StatusOK, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// ListPayments returns all payments of the user's company
func (c *Client) ListPayments(ctx context.Context) ([]Payment, error) {
	var payments []Payment
	if err := c.do(ctx, "list payments", http.MethodGet, "/api/payments/", nil, http.StatusOK, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// CreatePayment records a payment against a debt
func (c *Client) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*Payment, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var payment Payment
	if err := c.do(ctx, "create payment", http.MethodPost, "/api/payments/", req, http.StatusCreated, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}
