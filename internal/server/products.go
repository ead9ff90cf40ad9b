package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/billbook/billbook/internal/ledger"
)

// ProductHandler serves the /api/products resource.
type ProductHandler struct {
	store *ledger.Store
}

// NewProductHandler creates a ProductHandler backed by the given store.
func NewProductHandler(store *ledger.Store) *ProductHandler {
	return &ProductHandler{store: store}
}

// Price is a pointer so an absent field is distinguishable from an explicit
// zero price.
type productRequest struct {
	Name        string   `json:"name"`
	Price       *float64 `json:"price"`
	Description string   `json:"description"`
}

// List returns all products, most recently created first.
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.store.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, products)
}

// Get returns one product by id.
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id", "product")
	if !ok {
		return
	}
	product, err := h.store.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, product)
}

// Create adds a product. Name and price are required; description is
// optional.
func (h *ProductHandler) Create(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.Price == nil {
		respondBadRequest(c, "name and price are required")
		return
	}

	product, err := h.store.CreateProduct(c.Request.Context(), req.Name, *req.Price, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	slog.Info("Product created", "product_id", product.ID)
	respond(c, http.StatusCreated, product)
}

// Update replaces a product's name, price, and description.
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id", "product")
	if !ok {
		return
	}
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.Price == nil {
		respondBadRequest(c, "name and price are required")
		return
	}

	product, err := h.store.UpdateProduct(c.Request.Context(), id, req.Name, *req.Price, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	slog.Info("Product updated", "product_id", product.ID)
	respond(c, http.StatusOK, product)
}

// Delete removes a product and its bill associations.
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id", "product")
	if !ok {
		return
	}
	if err := h.store.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	slog.Info("Product deleted", "product_id", id)
	respondOK(c)
}
