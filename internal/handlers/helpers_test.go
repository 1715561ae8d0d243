package handlers_test

import (
	"Inventory/internal/config"
	"Inventory/internal/handlers"
	"Inventory/internal/repo"
	"Inventory/internal/service"
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// newTestRouter поднимает весь стек: in-memory SQLite, каталог фото во временной папке.
func newTestRouter(t *testing.T) (http.Handler, *config.Config) {
	t.Helper()
	cfg := &config.Config{PublicDir: t.TempDir(), PhotoMaxSizeMB: 1, BcryptCost: bcrypt.MinCost}
	logger := zap.NewNop().Sugar()

	db, err := repo.InitDB("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.CloseDB(db) })

	photos, err := repo.NewPhotoRepository(cfg.UploadDir())
	require.NoError(t, err)
	deviceRepo := repo.NewDeviceRepository(db)

	userSvc := service.NewUserService(repo.NewUserRepository(db), cfg.BcryptCost)
	deviceSvc := service.NewDeviceService(deviceRepo, photos, logger)
	checkoutSvc := service.NewCheckoutService(deviceRepo, userSvc, deviceSvc)

	h := handlers.NewHandler(userSvc, deviceSvc, checkoutSvc, logger, cfg)
	return h.Router, cfg
}

// helper to build multipart body
func makeMultipart(t *testing.T, fields map[string]string, files map[string][]byte) (string, *bytes.Buffer) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		_ = w.WriteField(k, v)
	}
	for name, data := range files {
		fw, _ := w.CreateFormFile(name, name+".jpg")
		_, _ = fw.Write(data)
	}
	_ = w.Close()
	return w.FormDataContentType(), body
}

func do(t *testing.T, router http.Handler, method, target, contentType string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func doJSON(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	return do(t, router, method, target, "application/json", strings.NewReader(body))
}

func register(t *testing.T, router http.Handler, username string) {
	t.Helper()
	rr := doJSON(t, router, http.MethodPost, "/register", `{"username":"`+username+`","password":"pw"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
}

func createDevice(t *testing.T, router http.Handler, fields map[string]string, files map[string][]byte) *httptest.ResponseRecorder {
	t.Helper()
	ct, body := makeMultipart(t, fields, files)
	return do(t, router, http.MethodPost, "/devices", ct, body)
}

type deviceDTO struct {
	ID           int64   `json:"id"`
	DeviceName   *string `json:"deviceName"`
	Description  *string `json:"description"`
	SerialNumber *string `json:"serialNumber"`
	Manufacturer *string `json:"manufacturer"`
	PhotoPath    *string `json:"photoPath"`
	Username     *string `json:"username"`
}

func decodeDevice(t *testing.T, rr *httptest.ResponseRecorder) deviceDTO {
	t.Helper()
	var d deviceDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &d), rr.Body.String())
	return d
}

func decodeDevices(t *testing.T, rr *httptest.ResponseRecorder) []deviceDTO {
	t.Helper()
	var list []deviceDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list), rr.Body.String())
	return list
}
