package api

import (
	"context"

	"github.com/sicea/console/internal/models"
)

type batchResponse struct {
	Results []models.ValidationResult `json:"results"`
}

// ValidateBatch submits the selected files for dry-run validation and returns
// one status per file, in file order.
func (c *Client) ValidateBatch(ctx context.Context, token string, files []UploadFile) ([]models.ValidationResult, error) {
	var out batchResponse
	if err := c.postFiles(ctx, token, "/reader/validate-batch-bills/", files, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// ProcessBatch commits a fully validated batch for extraction and storage.
func (c *Client) ProcessBatch(ctx context.Context, token string, files []UploadFile) error {
	return c.postFiles(ctx, token, "/reader/process-multiple-bills/", files, nil)
}
