package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// StatusError: ответ сервера с кодом, отличным от ожидаемого.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	msg := strings.TrimSpace(e.Body)
	if msg == "" {
		msg = http.StatusText(e.Code)
	}
	return fmt.Sprintf("server status %d: %s", e.Code, msg)
}

// Do выполняет запрос и читает тело ответа целиком. Коды 2xx считаются успехом,
// остальные возвращаются как *StatusError вместе с телом.
func Do(ctx context.Context, method, url, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return data, &StatusError{Code: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}

// Get выполняет GET и декодирует JSON-ответ в out (если out != nil).
func Get(ctx context.Context, url string, out any) error {
	data, err := Do(ctx, http.MethodGet, url, "", nil)
	if err != nil {
		return err
	}
	return decode(data, out)
}

// SendJSON отправляет payload как JSON и декодирует ответ в out (если out != nil).
func SendJSON(ctx context.Context, method, url string, payload, out any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	data, err := Do(ctx, method, url, "application/json", bytes.NewReader(b))
	if err != nil {
		return err
	}
	return decode(data, out)
}

// SendMultipart отправляет multipart/form-data: текстовые поля и необязательный файл.
func SendMultipart(ctx context.Context, method, url string, fields map[string]string, fileField, filePath string, out any) error {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return err
		}
	}
	if filePath != "" {
		f, err := os.Open(filePath)
		if err != nil {
			return err
		}
		defer f.Close()
		fw, err := w.CreateFormFile(fileField, filepath.Base(filePath))
		if err != nil {
			return err
		}
		if _, err := io.Copy(fw, f); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	data, err := Do(ctx, method, url, w.FormDataContentType(), body)
	if err != nil {
		return err
	}
	return decode(data, out)
}

func decode(data []byte, out any) error {
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
