package repo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// ErrPhotoMissing: файл фото, на который ссылается устройство, отсутствует.
var ErrPhotoMissing = errors.New("photo file missing")

// PhotoURLPrefix: префикс ссылок на фото, сохраняемых в devices.photo_path.
const PhotoURLPrefix = "/uploads/"

// PhotoRepository: файловое хранилище фото устройств.
type PhotoRepository interface {
	// Save записывает содержимое под новым уникальным именем и возвращает ссылку.
	// Файл полностью записан и закрыт к моменту возврата.
	Save(ctx context.Context, field, originalName string, content io.Reader) (string, error)
	// Resolve возвращает абсолютный путь к файлу или ErrPhotoMissing.
	Resolve(ref string) (string, error)
	Exists(ref string) bool
	Remove(ref string) error
}

type fsPhotoRepo struct {
	root string
	now  func() time.Time
}

// NewPhotoRepository создаёт хранилище с корнем dir (каталог создаётся при необходимости).
func NewPhotoRepository(dir string) (PhotoRepository, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", abs, err)
	}
	return &fsPhotoRepo{root: abs, now: time.Now}, nil
}

func (r *fsPhotoRepo) Save(ctx context.Context, field, originalName string, content io.Reader) (string, error) {
	if field == "" {
		field = "photo"
	}
	ext := filepath.Ext(originalName)

	// имя = поле + время в наносекундах; O_EXCL гарантирует, что чужой файл не перезапишется
	var (
		f    *os.File
		name string
		err  error
	)
	ts := r.now().UnixNano()
	for attempt := 0; attempt < 5; attempt++ {
		name = fmt.Sprintf("%s-%d%s", field, ts+int64(attempt), ext)
		f, err = os.OpenFile(filepath.Join(r.root, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil || !errors.Is(err, fs.ErrExist) {
			break
		}
	}
	if err != nil {
		return "", fmt.Errorf("create photo file: %w", err)
	}

	full := f.Name()
	if _, err := io.Copy(f, &ctxReader{ctx: ctx, r: content}); err != nil {
		_ = f.Close()
		_ = os.Remove(full)
		return "", fmt.Errorf("write photo: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(full)
		return "", fmt.Errorf("close photo: %w", err)
	}
	return PhotoURLPrefix + name, nil
}

func (r *fsPhotoRepo) Resolve(ref string) (string, error) {
	full, ok := r.localPath(ref)
	if !ok {
		return "", ErrPhotoMissing
	}
	st, err := os.Stat(full)
	if err != nil || st.IsDir() {
		return "", ErrPhotoMissing
	}
	return full, nil
}

func (r *fsPhotoRepo) Exists(ref string) bool {
	_, err := r.Resolve(ref)
	return err == nil
}

func (r *fsPhotoRepo) Remove(ref string) error {
	full, ok := r.localPath(ref)
	if !ok {
		return ErrPhotoMissing
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// localPath отображает ссылку /uploads/<name> в путь внутри root.
// Ссылки, выходящие за пределы root, отвергаются.
func (r *fsPhotoRepo) localPath(ref string) (string, bool) {
	if ref == "" {
		return "", false
	}
	clean := path.Clean("/" + strings.TrimPrefix(ref, PhotoURLPrefix))
	rel := strings.TrimPrefix(clean, "/")
	if rel == "" || rel == "." {
		return "", false
	}
	full := filepath.Join(r.root, filepath.FromSlash(rel))
	if !strings.HasPrefix(full, r.root+string(filepath.Separator)) {
		return "", false
	}
	return full, true
}

// ctxReader прерывает копирование при отмене контекста запроса.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
