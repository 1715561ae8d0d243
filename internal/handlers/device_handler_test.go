package handlers_test

import (
	"bytes"
	"compress/gzip"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevice_CreateAndGet(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := createDevice(t, router, map[string]string{
		"deviceId":     "1",
		"deviceName":   "Drill",
		"description":  "cordless",
		"serialNumber": "SN-1",
		"manufacturer": "Bosch",
	}, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	d := decodeDevice(t, rr)
	assert.Equal(t, int64(1), d.ID)
	assert.Nil(t, d.PhotoPath)
	assert.Nil(t, d.Username)

	rr = do(t, router, http.MethodGet, "/devices/1", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	d = decodeDevice(t, rr)
	assert.Equal(t, "Drill", *d.DeviceName)
	assert.Equal(t, "Bosch", *d.Manufacturer)

	// JSON тело тоже принимается
	rr = doJSON(t, router, http.MethodPost, "/devices", `{"deviceId":2,"deviceName":"Saw"}`)
	assert.Equal(t, http.StatusCreated, rr.Code)

	rr = do(t, router, http.MethodGet, "/devices/99", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = do(t, router, http.MethodGet, "/devices/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDevice_Create_Validation(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := createDevice(t, router, map[string]string{"deviceName": "no id"}, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = createDevice(t, router, map[string]string{"deviceId": "x"}, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = createDevice(t, router, map[string]string{"deviceId": "-3"}, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	require.Equal(t, http.StatusCreated, createDevice(t, router, map[string]string{"deviceId": "5"}, nil).Code)
	rr = createDevice(t, router, map[string]string{"deviceId": "5"}, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestDevice_Create_PhotoTooLarge(t *testing.T) {
	router, cfg := newTestRouter(t)
	big := bytes.Repeat([]byte{1}, cfg.PhotoMaxSizeMB*1024*1024+1)

	rr := createDevice(t, router, map[string]string{"deviceId": "1"}, map[string][]byte{"photo": big})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)

	entries, _ := os.ReadDir(cfg.UploadDir())
	assert.Empty(t, entries)
}

func TestDevice_PhotoRoundTrip(t *testing.T) {
	router, cfg := newTestRouter(t)
	img := []byte{0xFF, 0xD8, 0xFF, 0xE0, 'j', 'p', 'e', 'g', 0x00, 0x10}

	rr := createDevice(t, router, map[string]string{"deviceId": "1", "deviceName": "Camera"}, map[string][]byte{"photo": img})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	d := decodeDevice(t, rr)
	require.NotNil(t, d.PhotoPath)
	assert.True(t, strings.HasPrefix(*d.PhotoPath, "/uploads/photo-"))
	assert.True(t, strings.HasSuffix(*d.PhotoPath, ".jpg"))

	rr = do(t, router, http.MethodGet, "/devices/1/photo", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, img, rr.Body.Bytes())

	// та же ссылка доступна как статический файл
	rr = do(t, router, http.MethodGet, *d.PhotoPath, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, img, rr.Body.Bytes())

	// с gzip содержимое не меняется
	req := httptest.NewRequest(http.MethodGet, "/devices/1/photo", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	grr := httptest.NewRecorder()
	router.ServeHTTP(grr, req)
	require.Equal(t, "gzip", grr.Header().Get("Content-Encoding"))
	gr, err := gzip.NewReader(bytes.NewReader(grr.Body.Bytes()))
	require.NoError(t, err)
	unzipped, err := io.ReadAll(gr)
	require.NoError(t, err)
	assert.Equal(t, img, unzipped)

	// файл удалён с диска: фото 404, а в списке ссылка пустая
	require.NoError(t, os.Remove(filepath.Join(cfg.UploadDir(), strings.TrimPrefix(*d.PhotoPath, "/uploads/"))))
	rr = do(t, router, http.MethodGet, "/devices/1/photo", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, router, http.MethodGet, "/devices", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	list := decodeDevices(t, rr)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].PhotoPath)
	assert.Equal(t, "", *list[0].PhotoPath)
}

func TestDevice_Photo_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := do(t, router, http.MethodGet, "/devices/1/photo", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Device not found")

	require.Equal(t, http.StatusCreated, createDevice(t, router, map[string]string{"deviceId": "1"}, nil).Code)
	rr = do(t, router, http.MethodGet, "/devices/1/photo", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Photo not found")

	rr = do(t, router, http.MethodGet, "/uploads/", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDevice_PartialUpdate(t *testing.T) {
	router, _ := newTestRouter(t)
	img := []byte("original photo")
	rr := createDevice(t, router, map[string]string{
		"deviceId":     "1",
		"deviceName":   "Drill",
		"description":  "cordless",
		"serialNumber": "SN-1",
		"manufacturer": "Bosch",
	}, map[string][]byte{"photo": img})
	require.Equal(t, http.StatusCreated, rr.Code)
	before := decodeDevice(t, rr)

	ct, body := makeMultipart(t, map[string]string{"manufacturer": "Makita"}, nil)
	rr = do(t, router, http.MethodPut, "/devices/1", ct, body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	after := decodeDevice(t, rr)
	assert.Equal(t, "Makita", *after.Manufacturer)
	assert.Equal(t, "Drill", *after.DeviceName)
	assert.Equal(t, "cordless", *after.Description)
	assert.Equal(t, "SN-1", *after.SerialNumber)
	assert.Equal(t, *before.PhotoPath, *after.PhotoPath)

	// повтор без изменений, устройство существует, значит 200
	ct, body = makeMultipart(t, map[string]string{"manufacturer": "Makita"}, nil)
	rr = do(t, router, http.MethodPut, "/devices/1", ct, body)
	assert.Equal(t, http.StatusOK, rr.Code)

	// новое фото заменяет ссылку
	newImg := []byte("new photo")
	ct, body = makeMultipart(t, nil, map[string][]byte{"photo": newImg})
	rr = do(t, router, http.MethodPut, "/devices/1", ct, body)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = do(t, router, http.MethodGet, "/devices/1/photo", "", nil)
	assert.Equal(t, newImg, rr.Body.Bytes())

	ct, body = makeMultipart(t, map[string]string{"manufacturer": "x"}, nil)
	rr = do(t, router, http.MethodPut, "/devices/77", ct, body)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDevice_Delete(t *testing.T) {
	router, _ := newTestRouter(t)
	require.Equal(t, http.StatusCreated, createDevice(t, router, map[string]string{"deviceId": "1"}, nil).Code)

	rr := do(t, router, http.MethodDelete, "/devices/1", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = do(t, router, http.MethodDelete, "/devices/1", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCheckout_Scenario(t *testing.T) {
	router, _ := newTestRouter(t)
	register(t, router, "alice")
	register(t, router, "bob")
	require.Equal(t, http.StatusCreated, createDevice(t, router, map[string]string{"deviceId": "1", "deviceName": "Drill"}, nil).Code)

	rr := doJSON(t, router, http.MethodPut, "/devices/1/take", `{"username":"alice"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "alice", *decodeDevice(t, rr).Username)

	rr = doJSON(t, router, http.MethodPut, "/devices/1/take", `{"username":"bob"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "already taken")

	// держатель тоже не может взять повторно
	rr = doJSON(t, router, http.MethodPut, "/devices/1/take", `{"username":"alice"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// чужой возврат, 403, а не 404
	rr = doJSON(t, router, http.MethodPut, "/devices/1/return", `{"username":"bob"}`)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doJSON(t, router, http.MethodPut, "/devices/1/return", `{"username":"ghost"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "User not found")

	rr = doJSON(t, router, http.MethodPut, "/devices/1/return", `{"username":"alice"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, decodeDevice(t, rr).Username)

	rr = doJSON(t, router, http.MethodPut, "/devices/1/return", `{"username":"alice"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "not taken")
}

func TestCheckout_Validation(t *testing.T) {
	router, _ := newTestRouter(t)
	register(t, router, "alice")
	require.Equal(t, http.StatusCreated, createDevice(t, router, map[string]string{"deviceId": "1"}, nil).Code)

	rr := doJSON(t, router, http.MethodPut, "/devices/1/take", `{}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, router, http.MethodPut, "/devices/1/take", `{"username":"ghost"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "User not found")

	rr = doJSON(t, router, http.MethodPut, "/devices/42/take", `{"username":"alice"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSON(t, router, http.MethodPut, "/devices/1/return", `{"username":""}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCheckout_ConcurrentTake(t *testing.T) {
	router, _ := newTestRouter(t)
	register(t, router, "alice")
	register(t, router, "bob")
	require.Equal(t, http.StatusCreated, createDevice(t, router, map[string]string{"deviceId": "1"}, nil).Code)

	var wg sync.WaitGroup
	codes := make([]int, 2)
	for i, u := range []string{"alice", "bob"} {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPut, "/devices/1/take", strings.NewReader(`{"username":"`+u+`"}`))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			codes[i] = rr.Code
		}(i, u)
	}
	wg.Wait()

	assert.ElementsMatch(t, []int{http.StatusOK, http.StatusNotFound}, codes)
}

func TestDevice_Create_KeepsExtensionCase(t *testing.T) {
	router, cfg := newTestRouter(t)

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	require.NoError(t, w.WriteField("deviceId", "1"))
	fw, err := w.CreateFormFile("photo", "IMG_0001.JPG")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("jpeg bytes"))
	require.NoError(t, w.Close())

	rr := do(t, router, http.MethodPost, "/devices", w.FormDataContentType(), body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	d := decodeDevice(t, rr)
	require.NotNil(t, d.PhotoPath)
	assert.True(t, strings.HasSuffix(*d.PhotoPath, ".JPG"), *d.PhotoPath)

	_, err = os.Stat(filepath.Join(cfg.UploadDir(), strings.TrimPrefix(*d.PhotoPath, "/uploads/")))
	assert.NoError(t, err)
}

// Удаление выданного устройства и регистрация проходят на реальной схеме с внешним ключом.
func TestDevice_DeleteHeldDevice(t *testing.T) {
	router, _ := newTestRouter(t)
	register(t, router, "alice")
	require.Equal(t, http.StatusCreated, createDevice(t, router, map[string]string{"deviceId": "1"}, nil).Code)
	require.Equal(t, http.StatusOK, doJSON(t, router, http.MethodPut, "/devices/1/take", `{"username":"alice"}`).Code)

	rr := do(t, router, http.MethodDelete, "/devices/1", "", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), "Device deleted successfully")

	rr = do(t, router, http.MethodGet, "/devices/1", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, router, http.MethodGet, "/users/alice/devices", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decodeDevices(t, rr))

	// после удаления схема по-прежнему принимает новых пользователей
	register(t, router, "bob")
}

func TestCheckout_TrimsUsername(t *testing.T) {
	router, _ := newTestRouter(t)
	rr := doJSON(t, router, http.MethodPost, "/register", `{"username":" alice ","password":"pw"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	require.Equal(t, http.StatusCreated, createDevice(t, router, map[string]string{"deviceId": "1"}, nil).Code)

	rr = doJSON(t, router, http.MethodPut, "/devices/1/take", `{"username":" alice "}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "alice", *decodeDevice(t, rr).Username)

	rr = doJSON(t, router, http.MethodPut, "/devices/1/return", `{"username":"alice  "}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Nil(t, decodeDevice(t, rr).Username)

	rr = doJSON(t, router, http.MethodPut, "/devices/1/take", `{"username":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// Большой файл multipart уходит во временный файл; после ответа его не остаётся.
func TestDevice_Create_RemovesMultipartTempFiles(t *testing.T) {
	router, cfg := newTestRouter(t)
	cfg.PhotoMaxSizeMB = 12
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	big := bytes.Repeat([]byte{7}, 11<<20)
	rr := createDevice(t, router, map[string]string{"deviceId": "1"}, map[string][]byte{"photo": big})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	left, err := filepath.Glob(filepath.Join(tmp, "multipart-*"))
	require.NoError(t, err)
	assert.Empty(t, left)

	rr = do(t, router, http.MethodGet, "/devices/1/photo", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, len(big), rr.Body.Len())
}

func TestDevice_Photo_RangeNotCompressed(t *testing.T) {
	router, _ := newTestRouter(t)
	img := []byte("0123456789")
	require.Equal(t, http.StatusCreated, createDevice(t, router, map[string]string{"deviceId": "1"}, map[string][]byte{"photo": img}).Code)

	req := httptest.NewRequest(http.MethodGet, "/devices/1/photo", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("Range", "bytes=2-5")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusPartialContent, rr.Code)
	assert.Empty(t, rr.Header().Get("Content-Encoding"))
	assert.Equal(t, "bytes 2-5/10", rr.Header().Get("Content-Range"))
	assert.Equal(t, "2345", rr.Body.String())
}
