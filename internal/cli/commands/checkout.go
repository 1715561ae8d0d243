package commands

import (
	"Inventory/internal/cli/api"
	"Inventory/internal/config"
	"Inventory/internal/model"
	"context"
	"fmt"
	"net/http"
)

type holderRequest struct {
	Username string `json:"username"`
}

// checkout выполняет PUT /devices/{id}/<action> от имени пользователя.
func checkout(ctx context.Context, cfg *config.Config, action string, args []string) (*model.Device, error) {
	if len(args) != 2 || args[1] == "" {
		return nil, ErrUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return nil, err
	}
	var d model.Device
	if err := api.SendJSON(ctx, http.MethodPut, endpoint(cfg.ServerURL, "devices", id, action), holderRequest{Username: args[1]}, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

type takeCmd struct{}

func (takeCmd) Name() string        { return "take" }
func (takeCmd) Description() string { return "Взять устройство" }
func (takeCmd) Usage() string       { return "take <id> <username>" }

func (takeCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	d, err := checkout(ctx, cfg, "take", args)
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, "Устройство выдано:")
	printDevice(*d)
	return nil
}

type returnCmd struct{}

func (returnCmd) Name() string        { return "return" }
func (returnCmd) Description() string { return "Вернуть устройство" }
func (returnCmd) Usage() string       { return "return <id> <username>" }

func (returnCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	d, err := checkout(ctx, cfg, "return", args)
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, "Устройство возвращено:")
	printDevice(*d)
	return nil
}

func init() {
	RegisterCmd(takeCmd{})
	RegisterCmd(returnCmd{})
}
