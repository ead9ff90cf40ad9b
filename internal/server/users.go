package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/billbook/billbook/internal/ledger"
)

// UserHandler serves the /api/users resource.
type UserHandler struct {
	store *ledger.Store
}

// NewUserHandler creates a UserHandler backed by the given store.
func NewUserHandler(store *ledger.Store) *UserHandler {
	return &UserHandler{store: store}
}

type userRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// List returns all users, most recently created first.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.store.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, users)
}

// Get returns one user by id.
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id", "user")
	if !ok {
		return
	}
	user, err := h.store.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, user)
}

// Create adds a user. Conflicting emails return 409.
func (h *UserHandler) Create(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	user, err := h.store.CreateUser(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	slog.Info("User created", "user_id", user.ID)
	respond(c, http.StatusCreated, user)
}

// Update replaces a user's name and email.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id", "user")
	if !ok {
		return
	}
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	user, err := h.store.UpdateUser(c.Request.Context(), id, req.Name, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	slog.Info("User updated", "user_id", user.ID)
	respond(c, http.StatusOK, user)
}

// Delete removes a user and its bill associations.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id", "user")
	if !ok {
		return
	}
	if err := h.store.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	slog.Info("User deleted", "user_id", id)
	respondOK(c)
}
