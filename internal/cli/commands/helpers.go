package commands

import (
	"Inventory/internal/model"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// endpoint склеивает адрес сервера и путь ресурса. Каждый сегмент экранируется,
// чтобы имя пользователя с '/', '?' или '#' не меняло маршрут.
func endpoint(serverURL string, parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return strings.TrimRight(serverURL, "/") + "/" + strings.Join(escaped, "/")
}

// parseID проверяет, что идентификатор устройства положительное целое.
func parseID(s string) (string, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return "", ErrUsage
	}
	return strconv.FormatInt(id, 10), nil
}

// parseFields разбирает аргументы вида key=value. photo=<file> возвращается отдельно.
func parseFields(args []string) (map[string]string, string, error) {
	fields := map[string]string{}
	photo := ""
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		if !ok {
			return nil, "", ErrUsage
		}
		switch strings.ToLower(k) {
		case "name":
			fields["deviceName"] = v
		case "description":
			fields["description"] = v
		case "serial":
			fields["serialNumber"] = v
		case "manufacturer":
			fields["manufacturer"] = v
		case "photo":
			photo = v
		default:
			return nil, "", ErrUsage
		}
	}
	return fields, photo, nil
}

func str(p *string) string {
	if p == nil {
		return "-"
	}
	if *p == "" {
		return `""`
	}
	return *p
}

func printDevice(d model.Device) {
	holder := "available"
	if !d.Available() {
		holder = "held by " + *d.Username
	}
	fmt.Fprintf(Out, "- %d  name=%s  serial=%s  manufacturer=%s  photo=%s  %s\n",
		d.ID, str(d.DeviceName), str(d.SerialNumber), str(d.Manufacturer), str(d.PhotoPath), holder)
}

func printDevices(list []model.Device) {
	if len(list) == 0 {
		fmt.Fprintln(Out, "Нет устройств")
		return
	}
	for _, d := range list {
		printDevice(d)
	}
	fmt.Fprintf(Out, "Всего: %d\n", len(list))
}
