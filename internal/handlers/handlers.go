package handlers

import (
	"Inventory/internal/config"
	"Inventory/internal/middleware"
	"Inventory/internal/service"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	deviceService *service.DeviceService,
	checkoutService *service.CheckoutService,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithRequestID)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithRecover)
	r.Use(middleware.WithGzip)

	// Handlers
	userHandler := NewUserHandler(userService, checkoutService, logger)
	deviceHandler := NewDeviceHandler(deviceService, checkoutService, logger, config)

	// Device routes
	r.Route("/devices", func(r chi.Router) {
		r.Get("/", deviceHandler.List)
		r.Post("/", deviceHandler.Create)
		r.Get("/{id}", deviceHandler.Get)
		r.Put("/{id}", deviceHandler.Update)
		r.Delete("/{id}", deviceHandler.Delete)
		r.Get("/{id}/photo", deviceHandler.Photo)
		r.Put("/{id}/take", deviceHandler.Take)
		r.Put("/{id}/return", deviceHandler.Return)
	})

	// User routes
	r.Post("/register", userHandler.Register)
	r.Post("/login", userHandler.Login)
	r.Get("/users", userHandler.List)
	r.Get("/users/{username}/devices", userHandler.Devices)

	// Загруженные фото по ссылкам из photoPath
	files := http.StripPrefix("/uploads/", http.FileServer(http.Dir(config.UploadDir())))
	r.Get("/uploads/*", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})

	return &Handler{Router: r}
}
