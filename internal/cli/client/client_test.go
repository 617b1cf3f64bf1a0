package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mutableToken is a TokenSource whose value can change between requests
type mutableToken struct {
	mu    sync.Mutex
	value string
}

func (m *mutableToken) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value
}

func (m *mutableToken) set(v string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = v
}

func newTestClient(t *testing.T, tokens TokenSource, handler http.HandlerFunc) (*Client, *int32) {
	t.Helper()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	return New(srv.URL, tokens, zerolog.Nop()), &hits
}

func TestBearerTransport_InjectsTokenAtSendTime(t *testing.T) {
	tokens := &mutableToken{}
	var seen []string

	c, _ := newTestClient(t, tokens, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Write([]byte(`[]`))
	})

	ctx := context.Background()

	_, err := c.ListPayments(ctx)
	require.NoError(t, err)

	tokens.set("t1")
	_, err = c.ListPayments(ctx)
	require.NoError(t, err)

	tokens.set("another-token")
	_, err = c.ListCustomers(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"", "Bearer t1", "Bearer another-token"}, seen)
}

func TestBearerTransport_NilSource(t *testing.T) {
	c, _ := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	})

	_, err := c.ListPayments(context.Background())
	require.NoError(t, err)
}

func TestSetHTTPClient_KeepsBearer(t *testing.T) {
	tokens := &mutableToken{value: "abc"}
	c, _ := newTestClient(t, tokens, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	})

	c.SetHTTPClient(&http.Client{Transport: http.DefaultTransport})

	_, err := c.ListPayments(context.Background())
	require.NoError(t, err)
}

func TestMe(t *testing.T) {
	c, _ := newTestClient(t, &mutableToken{value: "t1"}, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/user/me", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`{"id":"1","email":"a@b.c","user_roles":"manager","full_name":"Ann Bee"}`))
	})

	user, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &User{ID: "1", Email: "a@b.c", Role: "manager", FullName: "Ann Bee"}, user)
}

func TestMe_Unauthorized(t *testing.T) {
	c, _ := newTestClient(t, &mutableToken{value: "expired"}, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Given token not valid for any token type"}`))
	})

	_, err := c.Me(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Contains(t, err.Error(), "status 401")
}

func TestMe_MalformedBody(t *testing.T) {
	c, _ := newTestClient(t, &mutableToken{value: "t1"}, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>oops</html>`))
	})

	_, err := c.Me(context.Background())
	require.Error(t, err)
	assert.False(t, IsUnauthorized(err))
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestLogin(t *testing.T) {
	c, _ := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/user/login/", r.URL.Path)

		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a@b.c", req.Email)
		assert.Equal(t, "secret", req.Password)

		w.Write([]byte(`{"access":"acc","refresh":"ref","user":{"id":"1","email":"a@b.c"}}`))
	})

	resp, err := c.Login(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)
	assert.Equal(t, "acc", resp.Access)
	assert.Equal(t, "a@b.c", resp.User.Email)
}

func TestLogin_InvalidEmailNeverSent(t *testing.T) {
	c, hits := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {})

	_, err := c.Login(context.Background(), "not-an-email", "secret")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "valid email")
	assert.Zero(t, atomic.LoadInt32(hits))
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr string
	}{
		{
			name:    "password mismatch",
			req:     RegisterRequest{Email: "a@b.c", Username: "ann", Password: "longenough", ConfirmPassword: "different"},
			wantErr: "passwords do not match",
		},
		{
			name:    "short password",
			req:     RegisterRequest{Email: "a@b.c", Username: "ann", Password: "short", ConfirmPassword: "short"},
			wantErr: "Password must be at least 8 characters",
		},
		{
			name:    "unknown role",
			req:     RegisterRequest{Email: "a@b.c", Username: "ann", Password: "longenough", ConfirmPassword: "longenough", Role: "admin"},
			wantErr: "Role must be one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, hits := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {})

			_, err := c.Register(context.Background(), tt.req)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Zero(t, atomic.LoadInt32(hits))
		})
	}
}

func TestRegister(t *testing.T) {
	c, _ := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/user/register/", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"messsage":"ok","user":{"id":"9","email":"a@b.c","user_roles":"seller"}}`))
	})

	user, err := c.Register(context.Background(), RegisterRequest{
		Email: "a@b.c", Username: "ann", Password: "longenough", ConfirmPassword: "longenough", Role: "seller",
	})
	require.NoError(t, err)
	assert.Equal(t, "9", user.ID)
	assert.Equal(t, "seller", user.Role)
}

func TestListDebts_Filter(t *testing.T) {
	c, hits := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/debts/", r.URL.Path)
		assert.Equal(t, "overdue", r.URL.Query().Get("filter"))
		w.Write([]byte(`[{"id":3,"client":"c-1","total_amount":"100.00","remaining_amount":"40.00","due_date":"2024-01-01","is_paid":false}]`))
	})

	debts, err := c.ListDebts(context.Background(), DebtFilterOverdue)
	require.NoError(t, err)
	require.Len(t, debts, 1)
	assert.Equal(t, 3, debts[0].ID)
	assert.Equal(t, "c-1", debts[0].Customer.ID)
	assert.Equal(t, "40.00", debts[0].RemainingAmount)

	_, err = c.ListDebts(context.Background(), "paid")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestListCustomerDebts_ClientAndDebts(t *testing.T) {
	c, _ := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/clients/c-1/debts/", r.URL.Path)
		w.Write([]byte(`{
			"client": {"id":"c-1","name":"Acme","phone":"+1","balanse":"0.00"},
			"debts": [{"id":3,"client":{"id":"c-1","name":"Acme","phone":"+1"},"total_amount":"100.00","remaining_amount":"100.00","due_date":"2030-01-01","is_paid":false}]
		}`))
	})

	resp, err := c.ListCustomerDebts(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", resp.Customer.Name)
	assert.Equal(t, "+1", resp.Customer.Phone)
	require.Len(t, resp.Debts, 1)
	assert.Equal(t, CustomerRef{ID: "c-1", Name: "Acme"}, resp.Debts[0].Customer)
}

func TestCreatePayment_RejectsNonPositiveAmount(t *testing.T) {
	c, hits := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {})

	for _, amount := range []string{"0", "-5", "abc"} {
		_, err := c.CreatePayment(context.Background(), CreatePaymentRequest{Debt: 1, Amount: amount})
		assert.Error(t, err, amount)
	}
	assert.Zero(t, atomic.LoadInt32(hits))
}

func TestCreateDebt(t *testing.T) {
	c, _ := newTestClient(t, &mutableToken{value: "t"}, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var req CreateDebtRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "c-1", req.Customer)
		assert.Equal(t, "250.50", req.TotalAmount)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":7,"client":"c-1","total_amount":"250.50","remaining_amount":"250.50","due_date":"2030-02-01","is_paid":false}`))
	})

	debt, err := c.CreateDebt(context.Background(), CreateDebtRequest{Customer: "c-1", TotalAmount: "250.50", DueDate: "2030-02-01"})
	require.NoError(t, err)
	assert.Equal(t, 7, debt.ID)

	_, err = c.CreateDebt(context.Background(), CreateDebtRequest{Customer: "c-1", TotalAmount: "-1"})
	assert.ErrorContains(t, err, "non-negative")
}

func TestDeleteDebt(t *testing.T) {
	c, _ := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/debts/4/", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.DeleteDebt(context.Background(), 4))
}

func TestUpdateDebt(t *testing.T) {
	c, _ := newTestClient(t, &mutableToken{value: "t"}, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/debts/7/", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"total_amount": "300.00", "due_date": "2030-03-01"}, body)

		w.Write([]byte(`{"id":7,"client":"c-1","total_amount":"300.00","remaining_amount":"300.00","due_date":"2030-03-01","is_paid":false}`))
	})

	debt, err := c.UpdateDebt(context.Background(), 7, UpdateDebtRequest{TotalAmount: "300.00", DueDate: "2030-03-01"})
	require.NoError(t, err)
	assert.Equal(t, "300.00", debt.TotalAmount)

	_, err = c.UpdateDebt(context.Background(), 7, UpdateDebtRequest{DueDate: "2030-03-01"})
	assert.ErrorContains(t, err, "TotalAmount is required")
}

func TestRefresh(t *testing.T) {
	c, _ := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/user/token/refresh/", r.URL.Path)

		var req refreshRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Refresh != "ref-1" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"non_field_errors":["invalid refresh token"]}`))
			return
		}
		w.Write([]byte(`{"access":"acc-2"}`))
	})

	access, err := c.Refresh(context.Background(), "ref-1")
	require.NoError(t, err)
	assert.Equal(t, "acc-2", access)

	_, err = c.Refresh(context.Background(), "stale")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

// appendSlash answers slashless paths with a permanent redirect, the way the
// API's framework does
func appendSlash(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/") {
			target := r.URL.Path + "/"
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, target, http.StatusMovedPermanently)
			return
		}
		next(w, r)
	}
}

func TestRequests_HitSlashTerminatedPaths(t *testing.T) {
	var mu sync.Mutex
	var requests []string

	api := appendSlash(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/user/login/":
			w.Write([]byte(`{"access":"acc","refresh":"ref","user":{"id":"1"}}`))
		case r.Method == http.MethodPost && r.URL.Path == "/api/user/register/":
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"user":{"id":"2"}}`))
		case r.Method == http.MethodPost && r.URL.Path == "/api/user/token/refresh/":
			w.Write([]byte(`{"access":"acc-2"}`))
		case r.Method == http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{}`))
		case r.Method == http.MethodPatch:
			w.Write([]byte(`{"id":5}`))
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		case r.URL.Path == "/api/clients/c-1/debts/":
			w.Write([]byte(`{"client":{"id":"c-1"},"debts":[]}`))
		case r.URL.Path == "/api/debts/5/":
			w.Write([]byte(`{"id":5}`))
		default:
			w.Write([]byte(`[]`))
		}
	})

	c, _ := newTestClient(t, &mutableToken{value: "t"}, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests = append(requests, r.Method+" "+r.URL.Path)
		mu.Unlock()
		api(w, r)
	})

	ctx := context.Background()
	calls := map[string]func() error{
		"login": func() error { _, err := c.Login(ctx, "a@b.c", "secret"); return err },
		"register": func() error {
			_, err := c.Register(ctx, RegisterRequest{Email: "a@b.c", Username: "ann", Password: "longenough", ConfirmPassword: "longenough"})
			return err
		},
		"refresh":        func() error { _, err := c.Refresh(ctx, "ref"); return err },
		"list clients":   func() error { _, err := c.ListCustomers(ctx); return err },
		"create client":  func() error { _, err := c.CreateCustomer(ctx, CreateCustomerRequest{Name: "Acme", Phone: "+1"}); return err },
		"client debts":   func() error { _, err := c.ListCustomerDebts(ctx, "c-1"); return err },
		"list debts":     func() error { _, err := c.ListDebts(ctx, DebtFilterOverdue); return err },
		"get debt":       func() error { _, err := c.GetDebt(ctx, 5); return err },
		"create debt":    func() error { _, err := c.CreateDebt(ctx, CreateDebtRequest{Customer: "c-1", TotalAmount: "1"}); return err },
		"update debt":    func() error { _, err := c.UpdateDebt(ctx, 5, UpdateDebtRequest{TotalAmount: "2"}); return err },
		"delete debt":    func() error { return c.DeleteDebt(ctx, 5) },
		"debt payments":  func() error { _, err := c.ListDebtPayments(ctx, 5); return err },
		"list payments":  func() error { _, err := c.ListPayments(ctx); return err },
		"create payment": func() error { _, err := c.CreatePayment(ctx, CreatePaymentRequest{Debt: 5, Amount: "1"}); return err },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			mu.Lock()
			requests = nil
			mu.Unlock()

			require.NoError(t, call())

			mu.Lock()
			defer mu.Unlock()
			require.Len(t, requests, 1, "request was redirected: %v", requests)
			assert.True(t, strings.HasSuffix(requests[0], "/"), requests[0])
		})
	}
}
