package chart

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/Starkiller645/economist/internal/config"
)

// Publisher uploads rendered charts to the external image store. The store
// addresses artifacts by zero-padded currency and record identifiers.
type Publisher struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewPublisher creates a chart publisher for the configured image store
func NewPublisher(cfg *config.ChartConfig, logger *slog.Logger) *Publisher {
	return &Publisher{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.PublishTimeout},
		logger:  logger,
	}
}

// Publish ships a PNG chart to the store as a multipart upload
func (p *Publisher) Publish(ctx context.Context, currencyID, recordID int64, png []byte) error {
	url := fmt.Sprintf("%s/%05d/%05d", p.baseURL, currencyID, recordID)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fmt.Sprintf("%05d.png", recordID))
	if err != nil {
		return fmt.Errorf("failed to build chart upload body: %w", err)
	}
	if _, err := part.Write(png); err != nil {
		return fmt.Errorf("failed to build chart upload body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize chart upload body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return fmt.Errorf("failed to build chart upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to upload chart to %s: %w", url, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("chart store rejected upload to %s: status %d", url, resp.StatusCode)
	}

	p.logger.Debug("Published chart", "url", url, "bytes", len(png))
	return nil
}
