package converter

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/matcert/internal/config"
)

const convertHTMLPath = "/forms/chromium/convert/html"

// Client exposes the HTML to PDF conversion used by the remote exporter.
type Client interface {
	ConvertHTML(ctx context.Context, req ConvertHTMLRequest) ([]byte, error)
}

// APIClient is a resty-backed implementation of Client talking to a
// Gotenberg-compatible conversion service.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a converter client using the provided configuration values.
func NewClient(cfg config.ExportConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.ConverterURL, "/")).
		SetTimeout(cfg.Timeout)

	return &APIClient{httpClient: restyClient}
}

// ConvertHTMLRequest describes one conversion. Sizes are in inches.
type ConvertHTMLRequest struct {
	HTML            []byte
	PaperWidth      float64
	PaperHeight     float64
	PrintBackground bool
	// WaitDelay gives late-loading assets time to settle before printing.
	WaitDelay time.Duration
}

// ConvertHTML posts the document as index.html and returns the PDF body.
func (c *APIClient) ConvertHTML(ctx context.Context, req ConvertHTMLRequest) ([]byte, error) {
	form := map[string]string{
		"paperWidth":      formatInches(req.PaperWidth),
		"paperHeight":     formatInches(req.PaperHeight),
		"marginTop":       "0",
		"marginBottom":    "0",
		"marginLeft":      "0",
		"marginRight":     "0",
		"printBackground": strconv.FormatBool(req.PrintBackground),
	}
	if req.WaitDelay > 0 {
		form["waitDelay"] = req.WaitDelay.String()
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetFileReader("files", "index.html", bytes.NewReader(req.HTML)).
		SetMultipartFormData(form).
		Post(convertHTMLPath)
	if err != nil {
		return nil, fmt.Errorf("convert html: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("converter api error: code=%d, message=%s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}

	return resp.Body(), nil
}

func formatInches(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
