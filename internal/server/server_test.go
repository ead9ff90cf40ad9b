package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/billbook/billbook/internal/ledger"
	"github.com/billbook/billbook/internal/models"
	"github.com/billbook/billbook/internal/storage/jsonfile"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	backend, err := jsonfile.New(filepath.Join(t.TempDir(), "database.json"))
	if err != nil {
		t.Fatalf("Failed to create backend: %v", err)
	}
	return NewRouter(Config{Store: ledger.New(backend)})
}

// envelope mirrors Response with the payload kept raw for per-test decoding.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("Response is not an envelope: %v (%s)", err, w.Body.String())
		}
	}
	return w, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("Failed to decode payload: %v (%s)", err, raw)
	}
	return v
}

func TestUserEndpoints(t *testing.T) {
	r := newTestRouter(t)

	t.Run("create returns 201 with the user", func(t *testing.T) {
		w, env := do(t, r, http.MethodPost, "/api/users", gin.H{"name": "Alice", "email": "alice@example.com"})
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201 (%s)", w.Code, w.Body.String())
		}
		if !env.Success {
			t.Fatalf("success = false: %s", env.Error)
		}
		user := decode[models.User](t, env.Data)
		if user.ID != 1 || user.Name != "Alice" {
			t.Errorf("user = %+v", user)
		}
	})

	t.Run("missing fields return 400", func(t *testing.T) {
		w, env := do(t, r, http.MethodPost, "/api/users", gin.H{"name": "NoEmail"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
		if env.Success || env.Error == "" {
			t.Errorf("envelope = %+v, want failure with message", env)
		}
	})

	t.Run("duplicate email returns 409", func(t *testing.T) {
		w, env := do(t, r, http.MethodPost, "/api/users", gin.H{"name": "Clone", "email": "alice@example.com"})
		if w.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", w.Code)
		}
		if env.Success {
			t.Error("success = true on conflict")
		}
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		w, _ := do(t, r, http.MethodGet, "/api/users/999", nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	t.Run("malformed id returns 400", func(t *testing.T) {
		w, _ := do(t, r, http.MethodGet, "/api/users/abc", nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("list wraps users in the envelope", func(t *testing.T) {
		w, env := do(t, r, http.MethodGet, "/api/users", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		users := decode[[]models.User](t, env.Data)
		if len(users) != 1 {
			t.Errorf("got %d users, want 1", len(users))
		}
	})
}

func TestBillEndpoints(t *testing.T) {
	r := newTestRouter(t)

	// Seed two users and one product.
	_, aliceEnv := do(t, r, http.MethodPost, "/api/users", gin.H{"name": "Alice", "email": "alice@example.com"})
	alice := decode[models.User](t, aliceEnv.Data)
	_, bobEnv := do(t, r, http.MethodPost, "/api/users", gin.H{"name": "Bob", "email": "bob@example.com"})
	bob := decode[models.User](t, bobEnv.Data)
	_, pizzaEnv := do(t, r, http.MethodPost, "/api/products", gin.H{"name": "Pizza", "price": 12.5})
	pizza := decode[models.Product](t, pizzaEnv.Data)

	var billID int64

	t.Run("create splits equally and attaches products", func(t *testing.T) {
		w, env := do(t, r, http.MethodPost, "/api/bills", gin.H{
			"title":      "Dinner",
			"amount":     25,
			"date":       "2024-01-01",
			"userIds":    []int64{alice.ID, bob.ID},
			"productIds": []int64{pizza.ID},
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201 (%s)", w.Code, w.Body.String())
		}
		bill := decode[models.Bill](t, env.Data)
		billID = bill.ID

		_, detailEnv := do(t, r, http.MethodGet, "/api/bills/1", nil)
		detail := decode[models.BillDetail](t, detailEnv.Data)
		if len(detail.Users) != 2 {
			t.Fatalf("got %d users, want 2", len(detail.Users))
		}
		for _, u := range detail.Users {
			if u.Share != 0.5 {
				t.Errorf("share = %v, want 0.5", u.Share)
			}
		}
		if len(detail.Products) != 1 || detail.Products[0].Quantity != 1 {
			t.Errorf("products = %+v", detail.Products)
		}
	})

	t.Run("create without amount returns 400", func(t *testing.T) {
		w, _ := do(t, r, http.MethodPost, "/api/bills", gin.H{"title": "X", "date": "2024-01-02"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("repeat attach keeps the first share", func(t *testing.T) {
		path := "/api/bills/1/users/" + itoa(alice.ID)
		w, _ := do(t, r, http.MethodPost, path, gin.H{"share": 0.9})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}

		_, detailEnv := do(t, r, http.MethodGet, "/api/bills/1", nil)
		detail := decode[models.BillDetail](t, detailEnv.Data)
		for _, u := range detail.Users {
			if u.ID == alice.ID && u.Share != 0.5 {
				t.Errorf("share overwritten to %v, want 0.5", u.Share)
			}
		}
	})

	t.Run("attach with unknown user returns 404", func(t *testing.T) {
		w, _ := do(t, r, http.MethodPost, "/api/bills/1/users/999", nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	t.Run("detach is idempotent over HTTP", func(t *testing.T) {
		path := "/api/bills/1/users/" + itoa(bob.ID)
		for i := 0; i < 2; i++ {
			w, _ := do(t, r, http.MethodDelete, path, nil)
			if w.Code != http.StatusOK {
				t.Errorf("detach #%d status = %d, want 200", i+1, w.Code)
			}
		}
	})

	t.Run("split reports owed amounts", func(t *testing.T) {
		w, env := do(t, r, http.MethodGet, "/api/bills/1/split", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		var breakdown struct {
			Users []struct {
				UserID int64   `json:"userId"`
				Amount float64 `json:"amount"`
			} `json:"users"`
			ProductsSubtotal float64 `json:"productsSubtotal"`
		}
		if err := json.Unmarshal(env.Data, &breakdown); err != nil {
			t.Fatalf("decode breakdown: %v", err)
		}
		if len(breakdown.Users) != 1 || breakdown.Users[0].Amount != 12.5 {
			t.Errorf("breakdown users = %+v, want Alice owing 12.5", breakdown.Users)
		}
		if breakdown.ProductsSubtotal != 12.5 {
			t.Errorf("products subtotal = %v, want 12.5", breakdown.ProductsSubtotal)
		}
	})

	t.Run("delete cascades and subsequent get is 404", func(t *testing.T) {
		w, _ := do(t, r, http.MethodDelete, "/api/bills/"+itoa(billID), nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		w, _ = do(t, r, http.MethodGet, "/api/bills/"+itoa(billID), nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})
}

func TestHealthcheck(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Errorf("healthcheck = %d %q", w.Code, w.Body.String())
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
