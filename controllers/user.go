package controllers

import (
	"errors"
	"net/http"
	"strings"

	"supermarket-erp/middleware"
	"supermarket-erp/models"
	"supermarket-erp/pos"
	"supermarket-erp/store"
	"supermarket-erp/utils"

	"go.uber.org/zap"
)

const minPasswordLength = 6

// UserController handles staff accounts and sign-in
type UserController struct {
	Store    store.UserStore
	Tokens   *utils.TokenManager
	Sessions *pos.Registry
	Logger   *zap.Logger
}

// NewUserController creates a new UserController
func NewUserController(users store.UserStore, tokens *utils.TokenManager, sessions *pos.Registry, logger *zap.Logger) *UserController {
	return &UserController{
		Store:    users,
		Tokens:   tokens,
		Sessions: sessions,
		Logger:   logger,
	}
}

// RegisterRequest creates a staff account
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginRequest carries the sign-in credentials
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned on a successful sign-in
type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Register creates a staff account (admin only)
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, uc.Logger, err)
		return
	}
	if len(req.Password) < minPasswordLength {
		writeError(w, uc.Logger, &models.ValidationError{Field: "password", Reason: "must be at least 6 characters"})
		return
	}

	user := models.User{
		Name:  strings.TrimSpace(req.Name),
		Email: req.Email,
		Role:  req.Role,
	}
	if err := user.Validate(); err != nil {
		writeError(w, uc.Logger, err)
		return
	}

	// Hash the password
	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		writeError(w, uc.Logger, err)
		return
	}
	user.Password = hashed

	created, err := uc.Store.CreateUser(r.Context(), user)
	if err != nil {
		writeError(w, uc.Logger, err)
		return
	}
	uc.Logger.Info("staff account created", zap.String("email", created.Email), zap.String("role", created.Role))
	utils.WriteJSON(w, http.StatusCreated, created)
}

// Login checks the credentials and returns a signed token
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var creds LoginRequest
	if err := decodeJSON(r, &creds); err != nil {
		writeError(w, uc.Logger, err)
		return
	}

	user, err := uc.Store.GetUserByEmail(r.Context(), strings.TrimSpace(creds.Email))
	if errors.Is(err, store.ErrNotFound) {
		utils.WriteError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		writeError(w, uc.Logger, err)
		return
	}

	// Compare the hashed password
	if !utils.CheckPassword(user.Password, creds.Password) {
		uc.Logger.Info("failed sign-in", zap.String("email", user.Email))
		utils.WriteError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := uc.Tokens.GenerateJWT(user)
	if err != nil {
		writeError(w, uc.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, LoginResponse{Token: token, User: user})
}

// Logout discards the caller's till session. Tokens are stateless and simply expire.
func (uc *UserController) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	uc.Sessions.Drop(claims.UserID)
	utils.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Logged out"})
}

// GetProfile returns the signed-in staff member
func (uc *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := uc.Store.GetUserByEmail(r.Context(), claims.Email)
	if err != nil {
		writeError(w, uc.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, user)
}
