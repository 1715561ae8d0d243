package commands

import (
	"Inventory/internal/cli/api"
	"Inventory/internal/config"
	"context"
	"fmt"
	"net/http"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerCmd struct{}

func (registerCmd) Name() string        { return "register" }
func (registerCmd) Description() string { return "Регистрация пользователя" }
func (registerCmd) Usage() string       { return "register <username> <password>" }

func (registerCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	err := api.SendJSON(ctx, http.MethodPost, endpoint(cfg.ServerURL, "register"), credentials{Username: args[0], Password: args[1]}, nil)
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, "Пользователь зарегистрирован:", args[0])
	return nil
}

type loginCmd struct{}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Description() string { return "Проверка логина и пароля" }
func (loginCmd) Usage() string       { return "login <username> <password>" }

func (loginCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	err := api.SendJSON(ctx, http.MethodPost, endpoint(cfg.ServerURL, "login"), credentials{Username: args[0], Password: args[1]}, nil)
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, "Пароль верный:", args[0])
	return nil
}

func init() {
	RegisterCmd(registerCmd{})
	RegisterCmd(loginCmd{})
}
