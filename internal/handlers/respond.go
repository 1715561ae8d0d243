package handlers

import (
	"Inventory/internal/service"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError переводит ошибку сервиса в HTTP-статус. Неизвестные ошибки логируются и дают 500.
func writeServiceError(w http.ResponseWriter, logger *zap.SugaredLogger, op string, err error) {
	switch {
	case errors.Is(err, service.ErrDeviceNotFound):
		http.Error(w, "Device not found", http.StatusNotFound)
	case errors.Is(err, service.ErrDeviceExists):
		http.Error(w, "Device with this id already exists", http.StatusConflict)
	case errors.Is(err, service.ErrDeviceUnavailable):
		http.Error(w, "Device not available or already taken", http.StatusNotFound)
	case errors.Is(err, service.ErrDeviceNotHeld):
		http.Error(w, "Device not taken by any user", http.StatusNotFound)
	case errors.Is(err, service.ErrNotHolder):
		http.Error(w, "You are not allowed to return this device", http.StatusForbidden)
	case errors.Is(err, service.ErrPhotoNotFound):
		http.Error(w, "Photo not found for the specified device ID", http.StatusNotFound)
	case errors.Is(err, service.ErrUserNotFound):
		http.Error(w, "User not found", http.StatusNotFound)
	case errors.Is(err, service.ErrUserExists):
		http.Error(w, "User already exists", http.StatusBadRequest)
	case errors.Is(err, service.ErrInvalidCredentials):
		http.Error(w, "invalid username or password", http.StatusUnauthorized)
	default:
		logger.Errorw(op+": service error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// formValues: поля запроса из JSON, urlencoded или multipart тела.
// Отсутствующий ключ и JSON null означают «поле не передано».
type formValues map[string]string

func (f formValues) get(key string) (string, bool) {
	v, ok := f[key]
	return v, ok
}

func (f formValues) ptr(key string) *string {
	if v, ok := f[key]; ok {
		return &v
	}
	return nil
}

// readFields разбирает тело запроса по Content-Type.
func readFields(r *http.Request, maxMemory int64) (formValues, error) {
	out := formValues{}
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch {
	case ct == "application/json":
		var raw map[string]any
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("invalid json body: %w", err)
		}
		for k, v := range raw {
			switch val := v.(type) {
			case nil:
			case string:
				out[k] = val
			case json.Number:
				out[k] = val.String()
			default:
				out[k] = fmt.Sprint(val)
			}
		}
	case strings.HasPrefix(ct, "multipart/"):
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return nil, err
		}
		for k, vs := range r.MultipartForm.Value {
			if len(vs) > 0 {
				out[k] = vs[0]
			}
		}
	default:
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		for k, vs := range r.PostForm {
			if len(vs) > 0 {
				out[k] = vs[0]
			}
		}
	}
	return out, nil
}

// removeForm удаляет временные файлы multipart-формы. Форма разобрана на копии запроса
// из middleware, поэтому сервер сам её не очистит.
func removeForm(r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}
