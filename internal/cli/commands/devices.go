package commands

import (
	"Inventory/internal/cli/api"
	"Inventory/internal/config"
	"Inventory/internal/model"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type devicesCmd struct{}

func (devicesCmd) Name() string        { return "devices" }
func (devicesCmd) Description() string { return "Показать все устройства или одно по id" }
func (devicesCmd) Usage() string       { return "devices [id]" }

func (devicesCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	switch len(args) {
	case 0:
		var list []model.Device
		if err := api.Get(ctx, endpoint(cfg.ServerURL, "devices"), &list); err != nil {
			return err
		}
		printDevices(list)
		return nil
	case 1:
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		var d model.Device
		if err := api.Get(ctx, endpoint(cfg.ServerURL, "devices", id), &d); err != nil {
			return err
		}
		printDevice(d)
		return nil
	default:
		return ErrUsage
	}
}

type addCmd struct{}

func (addCmd) Name() string        { return "add" }
func (addCmd) Description() string { return "Добавить устройство" }
func (addCmd) Usage() string {
	return "add <id> [name=..] [description=..] [serial=..] [manufacturer=..] [photo=<file>]"
}

func (addCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return ErrUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	fields, photo, err := parseFields(args[1:])
	if err != nil {
		return err
	}
	fields["deviceId"] = id
	var d model.Device
	if err := api.SendMultipart(ctx, http.MethodPost, endpoint(cfg.ServerURL, "devices"), fields, "photo", photo, &d); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Устройство добавлено:")
	printDevice(d)
	return nil
}

type updateCmd struct{}

func (updateCmd) Name() string        { return "update" }
func (updateCmd) Description() string { return "Изменить поля устройства" }
func (updateCmd) Usage() string {
	return "update <id> [name=..] [description=..] [serial=..] [manufacturer=..] [photo=<file>]"
}

func (updateCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	fields, photo, err := parseFields(args[1:])
	if err != nil {
		return err
	}
	var d model.Device
	if err := api.SendMultipart(ctx, http.MethodPut, endpoint(cfg.ServerURL, "devices", id), fields, "photo", photo, &d); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Устройство обновлено:")
	printDevice(d)
	return nil
}

type deleteCmd struct{}

func (deleteCmd) Name() string        { return "delete" }
func (deleteCmd) Description() string { return "Удалить устройство" }
func (deleteCmd) Usage() string       { return "delete <id>" }

func (deleteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	data, err := api.Do(ctx, http.MethodDelete, endpoint(cfg.ServerURL, "devices", id), "", nil)
	if err != nil {
		return err
	}
	var res struct {
		Result string `json:"result"`
	}
	if err := json.Unmarshal(data, &res); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	fmt.Fprintf(Out, "%s: %s\n", res.Result, id)
	return nil
}

func init() {
	RegisterCmd(devicesCmd{})
	RegisterCmd(addCmd{})
	RegisterCmd(updateCmd{})
	RegisterCmd(deleteCmd{})
}
