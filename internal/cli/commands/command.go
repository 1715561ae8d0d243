package commands

import (
	"Inventory/internal/config"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// ErrUsage сигнализирует о неверных аргументах: диспетчер печатает Usage команды.
var ErrUsage = errors.New("usage")

// Command: подкоманда invcli, один запрос к REST API инвентаря.
type Command interface {
	// Name имя подкоманды, например "take".
	Name() string
	// Description строка для общего списка команд.
	Description() string
	// Usage синтаксис аргументов, например "take <id> <username>".
	Usage() string
	// Run выполняет команду; args без имени команды.
	Run(ctx context.Context, cfg *config.Config, args []string) error
}

var registry = map[string]Command{}

// Out: writer для вывода CLI. В тестах подменяется буфером.
var Out io.Writer = os.Stdout

// RegisterCmd регистрирует команду, вызывается из init() файла команды.
func RegisterCmd(cmd Command) {
	registry[cmd.Name()] = cmd
}

// Get ищет команду по имени.
func Get(name string) (Command, bool) {
	c, ok := registry[name]
	return c, ok
}

// List команды по алфавиту.
func List() []Command {
	list := make([]Command, 0, len(registry))
	for _, c := range registry {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// FormatGlobalUsage общий help: синтаксис вызова, команды и пример сценария выдачи.
func FormatGlobalUsage() string {
	lines := []string{
		"Inventory CLI: каталог устройств, выдача и возврат",
		"",
		"Usage:",
		"  invcli [-base-url <host:port>] [-https] <command> [args]",
		"",
		"Commands:",
	}
	for _, c := range List() {
		lines = append(lines, fmt.Sprintf("  %s\n      %s", c.Usage(), c.Description()))
	}
	lines = append(lines,
		"",
		"Example:",
		"  invcli register alice secret",
		"  invcli add 7 name=Drill serial=SN-1 photo=./drill.jpg",
		"  invcli take 7 alice",
		"  invcli held alice",
		"  invcli return 7 alice",
	)
	return strings.Join(lines, "\n") + "\n"
}
