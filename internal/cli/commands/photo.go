package commands

import (
	"Inventory/internal/cli/api"
	"Inventory/internal/config"
	"context"
	"fmt"
	"net/http"
	"os"
)

type photoCmd struct{}

func (photoCmd) Name() string        { return "photo" }
func (photoCmd) Description() string { return "Скачать фото устройства в файл" }
func (photoCmd) Usage() string       { return "photo <id> <file>" }

func (photoCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	data, err := api.Do(ctx, http.MethodGet, endpoint(cfg.ServerURL, "devices", id, "photo"), "", nil)
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[1], data, 0o644); err != nil {
		return fmt.Errorf("write photo: %w", err)
	}
	fmt.Fprintf(Out, "Фото сохранено: %s (%d байт)\n", args[1], len(data))
	return nil
}

func init() { RegisterCmd(photoCmd{}) }
