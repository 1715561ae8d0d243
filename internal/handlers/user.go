package handlers

import (
	"Inventory/internal/service"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UserHandler регистрация, проверка пароля и списки пользователей.
type UserHandler struct {
	Users    *service.UserService
	Checkout *service.CheckoutService
	Logger   *zap.SugaredLogger
}

// NewUserHandler создаёт хендлер пользователей
func NewUserHandler(users *service.UserService, checkout *service.CheckoutService, logger *zap.SugaredLogger) *UserHandler {
	return &UserHandler{Users: users, Checkout: checkout, Logger: logger}
}

type credentials struct {
	Username string
	Password string
}

func (h *UserHandler) readCredentials(w http.ResponseWriter, r *http.Request, op string) (credentials, bool) {
	defer removeForm(r)
	fields, err := readFields(r, 1<<20)
	if err != nil {
		h.Logger.Warnw(op+": invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return credentials{}, false
	}
	username, _ := fields.get("username")
	password, _ := fields.get("password")
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		http.Error(w, "username and password are required", http.StatusBadRequest)
		return credentials{}, false
	}
	return credentials{Username: username, Password: password}, true
}

// Register регистрация нового пользователя
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	c, ok := h.readCredentials(w, r, "Register")
	if !ok {
		return
	}
	user, err := h.Users.Register(r.Context(), c.Username, c.Password)
	if err != nil {
		writeServiceError(w, h.Logger, "Register", err)
		return
	}
	h.Logger.Infow("user registered", "username", user.Username)
	writeJSON(w, http.StatusCreated, user)
}

// Login проверка пароля (без выдачи токена)
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	c, ok := h.readCredentials(w, r, "Login")
	if !ok {
		return
	}
	user, err := h.Users.Authenticate(r.Context(), c.Username, c.Password)
	if err != nil {
		writeServiceError(w, h.Logger, "Login", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// List список пользователей без хешей паролей
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context())
	if err != nil {
		writeServiceError(w, h.Logger, "ListUsers", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// Devices устройства, которые сейчас у пользователя
func (h *UserHandler) Devices(w http.ResponseWriter, r *http.Request) {
	// chi отдаёт сегмент из экранированного пути, если он был экранирован
	username, err := url.PathUnescape(chi.URLParam(r, "username"))
	if err != nil {
		http.Error(w, "invalid username", http.StatusBadRequest)
		return
	}
	list, err := h.Checkout.HeldBy(r.Context(), username)
	if err != nil {
		writeServiceError(w, h.Logger, "UserDevices", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
