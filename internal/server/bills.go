package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/billbook/billbook/internal/calculator"
	"github.com/billbook/billbook/internal/ledger"
)

// BillHandler serves the /api/bills resource and its user/product
// associations.
type BillHandler struct {
	store *ledger.Store
}

// NewBillHandler creates a BillHandler backed by the given store.
func NewBillHandler(store *ledger.Store) *BillHandler {
	return &BillHandler{store: store}
}

type createBillRequest struct {
	Title      string   `json:"title"`
	Amount     *float64 `json:"amount"`
	Date       string   `json:"date"`
	UserIDs    []int64  `json:"userIds"`
	ProductIDs []int64  `json:"productIds"`
}

type updateBillRequest struct {
	Title  string   `json:"title"`
	Amount *float64 `json:"amount"`
	Date   string   `json:"date"`
}

type attachUserRequest struct {
	Share *float64 `json:"share"`
}

type attachProductRequest struct {
	Quantity *float64 `json:"quantity"`
}

// List returns all bills, most recently created first.
func (h *BillHandler) List(c *gin.Context) {
	bills, err := h.store.ListBills(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, bills)
}

// Get returns one bill enriched with its resolved users and products.
func (h *BillHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id", "bill")
	if !ok {
		return
	}
	detail, err := h.store.BillDetail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, detail)
}

// Create adds a bill, attaching the supplied users with equal shares and
// the supplied products with quantity 1.
func (h *BillHandler) Create(c *gin.Context) {
	var req createBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.Amount == nil {
		respondBadRequest(c, "title, amount, and date are required")
		return
	}

	bill, err := h.store.CreateBill(c.Request.Context(), req.Title, *req.Amount, req.Date, req.UserIDs, req.ProductIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	slog.Info("Bill created",
		"bill_id", bill.ID,
		"users", len(req.UserIDs),
		"products", len(req.ProductIDs),
	)
	respond(c, http.StatusCreated, bill)
}

// Update replaces a bill's title, amount, and date. Associations are left
// alone.
func (h *BillHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id", "bill")
	if !ok {
		return
	}
	var req updateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.Amount == nil {
		respondBadRequest(c, "title, amount, and date are required")
		return
	}

	bill, err := h.store.UpdateBill(c.Request.Context(), id, req.Title, *req.Amount, req.Date)
	if err != nil {
		respondError(c, err)
		return
	}

	slog.Info("Bill updated", "bill_id", bill.ID)
	respond(c, http.StatusOK, bill)
}

// Delete removes a bill and all its association rows.
func (h *BillHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id", "bill")
	if !ok {
		return
	}
	if err := h.store.DeleteBill(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	slog.Info("Bill deleted", "bill_id", id)
	respondOK(c)
}

// AttachUser links a user to a bill. The body may carry a share, which
// defaults to 0. Attaching an existing pair is a no-op.
func (h *BillHandler) AttachUser(c *gin.Context) {
	billID, ok := pathID(c, "id", "bill")
	if !ok {
		return
	}
	userID, ok := pathID(c, "userId", "user")
	if !ok {
		return
	}

	share := 0.0
	if c.Request.ContentLength > 0 {
		var req attachUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, "invalid request body: "+err.Error())
			return
		}
		if req.Share != nil {
			share = *req.Share
		}
	}

	if err := h.store.AttachUser(c.Request.Context(), billID, userID, share); err != nil {
		respondError(c, err)
		return
	}

	slog.Info("User attached to bill", "bill_id", billID, "user_id", userID)
	respondOK(c)
}

// DetachUser removes a user from a bill. Removing an absent pair succeeds.
func (h *BillHandler) DetachUser(c *gin.Context) {
	billID, ok := pathID(c, "id", "bill")
	if !ok {
		return
	}
	userID, ok := pathID(c, "userId", "user")
	if !ok {
		return
	}

	if err := h.store.DetachUser(c.Request.Context(), billID, userID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c)
}

// AttachProduct links a product to a bill. The body may carry a quantity,
// which defaults to 1. Attaching an existing pair is a no-op.
func (h *BillHandler) AttachProduct(c *gin.Context) {
	billID, ok := pathID(c, "id", "bill")
	if !ok {
		return
	}
	productID, ok := pathID(c, "productId", "product")
	if !ok {
		return
	}

	quantity := 1.0
	if c.Request.ContentLength > 0 {
		var req attachProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, "invalid request body: "+err.Error())
			return
		}
		if req.Quantity != nil {
			quantity = *req.Quantity
		}
	}

	if err := h.store.AttachProduct(c.Request.Context(), billID, productID, quantity); err != nil {
		respondError(c, err)
		return
	}

	slog.Info("Product attached to bill", "bill_id", billID, "product_id", productID)
	respondOK(c)
}

// DetachProduct removes a product from a bill. Removing an absent pair
// succeeds.
func (h *BillHandler) DetachProduct(c *gin.Context) {
	billID, ok := pathID(c, "id", "bill")
	if !ok {
		return
	}
	productID, ok := pathID(c, "productId", "product")
	if !ok {
		return
	}

	if err := h.store.DetachProduct(c.Request.Context(), billID, productID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c)
}

// Split returns the computed breakdown of a bill: each attached user's owed
// amount and the products subtotal.
func (h *BillHandler) Split(c *gin.Context) {
	id, ok := pathID(c, "id", "bill")
	if !ok {
		return
	}
	detail, err := h.store.BillDetail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, calculator.ComputeBreakdown(detail))
}
