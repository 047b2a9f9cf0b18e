package client

import (
	"context"
	"net/http"
	"strconv"

	"github.com/timmy/siscrap/internal/domain"
)

type robotStatus struct {
	Status bool `json:"status"`
}

// RobotStatus reports whether the scraping robot is switched on.
func (c *Client) RobotStatus(ctx context.Context) (bool, error) {
	uid, err := c.userID()
	if err != nil {
		return false, err
	}
	req, cancel := c.request(ctx, c.timeout)
	defer cancel()

	var result robotStatus
	resp, err := req.
		SetQueryParam("usuarioId", strconv.FormatInt(uid, 10)).
		SetResult(&result).
		Get("/comandos/status-site")
	if err := c.check(ctx, "robot status", resp, err); err != nil {
		return false, err
	}
	return result.Status, nil
}

// ToggleRobot flips the robot on/off flag.
func (c *Client) ToggleRobot(ctx context.Context) error {
	uid, err := c.userID()
	if err != nil {
		return err
	}
	req, cancel := c.request(ctx, c.timeout)
	defer cancel()

	resp, err := req.
		SetQueryParam("usuarioId", strconv.FormatInt(uid, 10)).
		Put("/comandos/mudar-status")
	return c.check(ctx, "toggle robot", resp, err)
}

// DownloadAgent streams the desktop robot installer.
func (c *Client) DownloadAgent(ctx context.Context) (*domain.Download, error) {
	req, _ := c.request(ctx, 0)
	req.SetQueryParam("nomeArquivo", "main.exe")
	return c.download(ctx, "download agent", http.MethodGet, "/exe", req)
}
