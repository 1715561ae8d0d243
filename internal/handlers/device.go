package handlers

import (
	"Inventory/internal/config"
	"Inventory/internal/model"
	"Inventory/internal/service"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// photoField: имя multipart-поля с файлом фото.
const photoField = "photo"

// DeviceHandler обрабатывает каталог устройств и выдачу/возврат.
type DeviceHandler struct {
	Devices  *service.DeviceService
	Checkout *service.CheckoutService
	Logger   *zap.SugaredLogger
	Config   *config.Config
}

// NewDeviceHandler создаёт хендлер устройств
func NewDeviceHandler(devices *service.DeviceService, checkout *service.CheckoutService, logger *zap.SugaredLogger, cfg *config.Config) *DeviceHandler {
	return &DeviceHandler{Devices: devices, Checkout: checkout, Logger: logger, Config: cfg}
}

// List список всех устройств
func (h *DeviceHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Devices.List(r.Context())
	if err != nil {
		writeServiceError(w, h.Logger, "ListDevices", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Get одно устройство по id
func (h *DeviceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.deviceID(w, r)
	if !ok {
		return
	}
	d, err := h.Devices.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.Logger, "GetDevice", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Create добавляет устройство (multipart с необязательным файлом photo или JSON)
func (h *DeviceHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer removeForm(r)
	fields, photo, ok := h.readDeviceForm(w, r)
	if !ok {
		return
	}
	if photo != nil {
		defer photo.close()
	}

	raw, present := fields.get("deviceId")
	if !present || strings.TrimSpace(raw) == "" {
		http.Error(w, "deviceId is required", http.StatusBadRequest)
		return
	}
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "deviceId must be a positive integer", http.StatusBadRequest)
		return
	}

	d, err := h.Devices.Create(r.Context(), id, deviceFields(fields), photo.upload())
	if err != nil {
		writeServiceError(w, h.Logger, "CreateDevice", err)
		return
	}
	h.Logger.Infow("device created", "id", d.ID, "photo", d.PhotoPath != nil)
	writeJSON(w, http.StatusCreated, d)
}

// Update частичное обновление: непереданные поля остаются прежними
func (h *DeviceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.deviceID(w, r)
	if !ok {
		return
	}
	defer removeForm(r)
	fields, photo, ok := h.readDeviceForm(w, r)
	if !ok {
		return
	}
	if photo != nil {
		defer photo.close()
	}

	d, err := h.Devices.Update(r.Context(), id, deviceFields(fields), photo.upload())
	if err != nil {
		writeServiceError(w, h.Logger, "UpdateDevice", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Delete удаляет устройство
func (h *DeviceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.deviceID(w, r)
	if !ok {
		return
	}
	if err := h.Devices.Delete(r.Context(), id); err != nil {
		writeServiceError(w, h.Logger, "DeleteDevice", err)
		return
	}
	h.Logger.Infow("device deleted", "id", id)
	writeJSON(w, http.StatusOK, map[string]any{"result": "Device deleted successfully", "id": id})
}

// Photo отдаёт файл фото устройства
func (h *DeviceHandler) Photo(w http.ResponseWriter, r *http.Request) {
	id, ok := h.deviceID(w, r)
	if !ok {
		return
	}
	full, err := h.Devices.PhotoFile(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.Logger, "DevicePhoto", err)
		return
	}
	f, err := os.Open(full)
	if err != nil {
		// файл удалили между проверкой и открытием
		writeServiceError(w, h.Logger, "DevicePhoto", service.ErrPhotoNotFound)
		return
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		writeServiceError(w, h.Logger, "DevicePhoto", err)
		return
	}
	http.ServeContent(w, r, filepath.Base(full), st.ModTime(), f)
}

// Take выдача устройства пользователю
func (h *DeviceHandler) Take(w http.ResponseWriter, r *http.Request) {
	h.checkout(w, r, "TakeDevice", h.Checkout.Take)
}

// Return возврат устройства на склад
func (h *DeviceHandler) Return(w http.ResponseWriter, r *http.Request) {
	h.checkout(w, r, "ReturnDevice", h.Checkout.Return)
}

func (h *DeviceHandler) checkout(w http.ResponseWriter, r *http.Request, op string, fn func(context.Context, int64, string) (*model.Device, error)) {
	id, ok := h.deviceID(w, r)
	if !ok {
		return
	}
	defer removeForm(r)
	fields, err := readFields(r, 1<<20)
	if err != nil {
		h.Logger.Warnw(op+": invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	// имя приводится к тому же виду, что и при регистрации
	username, _ := fields.get("username")
	username = strings.TrimSpace(username)
	if username == "" {
		http.Error(w, "username is required", http.StatusBadRequest)
		return
	}

	d, err := fn(r.Context(), id, username)
	if err != nil {
		writeServiceError(w, h.Logger, op, err)
		return
	}
	h.Logger.Infow(op, "id", id, "username", username)
	writeJSON(w, http.StatusOK, d)
}

func (h *DeviceHandler) deviceID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid device id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// uploadedPhoto: открытый файл из multipart-формы.
type uploadedPhoto struct {
	file   multipart.File
	header *multipart.FileHeader
}

func (p *uploadedPhoto) upload() *service.PhotoUpload {
	if p == nil {
		return nil
	}
	return &service.PhotoUpload{Field: photoField, Filename: p.header.Filename, Content: p.file}
}

func (p *uploadedPhoto) close() {
	_ = p.file.Close()
}

// readDeviceForm разбирает поля устройства и необязательный файл photo.
// При ошибке ответ уже записан.
func (h *DeviceHandler) readDeviceForm(w http.ResponseWriter, r *http.Request) (formValues, *uploadedPhoto, bool) {
	maxPhoto := int64(h.Config.PhotoMaxSizeMB) * 1024 * 1024
	// Лимит общего тела запроса
	r.Body = http.MaxBytesReader(w, r.Body, maxPhoto+1*1024*1024)

	fields, err := readFields(r, 10<<20)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "payload too large", http.StatusRequestEntityTooLarge)
			return nil, nil, false
		}
		h.Logger.Warnw("invalid device form", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return nil, nil, false
	}

	if r.MultipartForm == nil || len(r.MultipartForm.File[photoField]) == 0 {
		return fields, nil, true
	}
	header := r.MultipartForm.File[photoField][0]
	if header.Size > maxPhoto {
		http.Error(w, "payload too large", http.StatusRequestEntityTooLarge)
		return nil, nil, false
	}
	file, err := header.Open()
	if err != nil {
		h.Logger.Warnw("failed to open uploaded photo", "error", err)
		http.Error(w, "invalid photo", http.StatusBadRequest)
		return nil, nil, false
	}
	return fields, &uploadedPhoto{file: file, header: header}, true
}

func deviceFields(f formValues) service.DeviceFields {
	return service.DeviceFields{
		DeviceName:   f.ptr("deviceName"),
		Description:  f.ptr("description"),
		SerialNumber: f.ptr("serialNumber"),
		Manufacturer: f.ptr("manufacturer"),
	}
}
