package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"store-backend/internal/models"
	"store-backend/pkg/utils"
)

type UserService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (*models.UserInfo, error)
}

type AuthHandler struct {
	Service UserService
}

func NewAuthHandler(s UserService) *AuthHandler {
	return &AuthHandler{Service: s}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	resp, err := h.Service.Login(r.Context(), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   resp.Token,
		"user":    resp.User,
	})
}

// Logout is stateless; clients drop the token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	utils.Message(w, "Logged out")
}

// GetUser handles GET /user/{employeeId}.
func (h *AuthHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	info, err := h.Service.GetByEmployeeID(r.Context(), mux.Vars(r)["employeeId"])
	if err != nil {
		respondError(w, r, err)
		return
	}
	utils.OK(w, http.StatusOK, info)
}
