package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sicea/console/internal/models"
)

// MeterInput is the writable subset of a meter.
type MeterInput struct {
	Name         string `json:"name"`
	ClientNumber string `json:"client_number"`
	MeterType    string `json:"meter_type"`
	Coverage     string `json:"coverage"`
}

func (c *Client) ListMeters(ctx context.Context, token string) ([]models.Meter, error) {
	var out []models.Meter
	if err := c.getJSON(ctx, token, "/reader/meters/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateMeter(ctx context.Context, token string, in MeterInput) (*models.Meter, error) {
	var out models.Meter
	if err := c.sendJSON(ctx, http.MethodPost, token, "/reader/meters/create/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateMeter(ctx context.Context, token string, id int, in MeterInput) error {
	return c.sendJSON(ctx, http.MethodPut, token, fmt.Sprintf("/reader/meters/%d/update/", id), in, nil)
}

// DeleteMeter removes a meter. The backend cascades the delete to the meter's
// bills; views must warn and confirm before calling this.
func (c *Client) DeleteMeter(ctx context.Context, token string, id int) error {
	return c.sendJSON(ctx, http.MethodDelete, token, fmt.Sprintf("/reader/meters/%d/delete/", id), nil, nil)
}
