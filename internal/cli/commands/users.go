package commands

import (
	"Inventory/internal/cli/api"
	"Inventory/internal/config"
	"Inventory/internal/model"
	"context"
	"fmt"
)

type usersCmd struct{}

func (usersCmd) Name() string        { return "users" }
func (usersCmd) Description() string { return "Список пользователей" }
func (usersCmd) Usage() string       { return "users" }

func (usersCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	var list []model.User
	if err := api.Get(ctx, endpoint(cfg.ServerURL, "users"), &list); err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(Out, "Нет пользователей")
		return nil
	}
	for _, u := range list {
		fmt.Fprintf(Out, "- %s\n", u.Username)
	}
	fmt.Fprintf(Out, "Всего: %d\n", len(list))
	return nil
}

// heldCmd показывает устройства на руках у пользователя.
type heldCmd struct{}

func (heldCmd) Name() string        { return "held" }
func (heldCmd) Description() string { return "Устройства пользователя" }
func (heldCmd) Usage() string       { return "held <username>" }

func (heldCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 || args[0] == "" {
		return ErrUsage
	}
	var list []model.Device
	if err := api.Get(ctx, endpoint(cfg.ServerURL, "users", args[0], "devices"), &list); err != nil {
		return err
	}
	printDevices(list)
	return nil
}

func init() {
	RegisterCmd(usersCmd{})
	RegisterCmd(heldCmd{})
}
