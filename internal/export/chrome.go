package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
	"go.uber.org/zap"

	"github.com/mamadbah2/matcert/internal/domain/models"
	"github.com/mamadbah2/matcert/internal/render"
)

const (
	captureViewportWidth  = 900
	captureViewportHeight = 1300
	captureScale          = 2
	mmPerInch             = 25.4
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><style>
@page { size: A4 portrait; margin: 0; }
html, body { margin: 0; padding: 0; background: #ffffff; }
img { position: absolute; }
</style></head><body>
<img src="{{ .Src }}" style="left: {{ .X }}mm; top: {{ .Y }}mm; width: {{ .Width }}mm; height: {{ .Height }}mm;">
</body></html>`))

// ChromeConfig controls how the local browser is reached.
type ChromeConfig struct {
	// Bin is the Chrome executable; empty lets the launcher find or fetch one.
	Bin string
	// DebuggerURL connects to an already running Chrome instead of launching.
	DebuggerURL string
	Headless    bool
}

// ChromeExporter rasterizes the document surface in headless Chrome and
// paginates the capture onto an A4 PDF.
type ChromeExporter struct {
	cfg     ChromeConfig
	logger  *zap.Logger
	mu      sync.Mutex
	browser *rod.Browser
}

// NewChromeExporter builds an exporter; the browser starts on first use.
func NewChromeExporter(cfg ChromeConfig, logger *zap.Logger) *ChromeExporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChromeExporter{cfg: cfg, logger: logger}
}

// Export renders document and returns the PDF bytes.
func (e *ChromeExporter) Export(ctx context.Context, document []byte) ([]byte, error) {
	browser, err := e.ensureBrowser()
	if err != nil {
		return nil, err
	}

	incognito, err := browser.Incognito()
	if err != nil {
		return nil, fmt.Errorf("open incognito context: %w", err)
	}
	defer func() { _ = incognito.Close() }()

	page, err := incognito.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	page = page.Context(ctx)
	defer func() { _ = page.Close() }()

	capture, err := e.capture(page, document)
	if err != nil {
		return nil, err
	}
	return e.paginate(page, capture)
}

func (e *ChromeExporter) capture(page *rod.Page, document []byte) ([]byte, error) {
	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             captureViewportWidth,
		Height:            captureViewportHeight,
		DeviceScaleFactor: captureScale,
	}).Call(page); err != nil {
		return nil, fmt.Errorf("set device metrics: %w", err)
	}

	if err := page.SetDocumentContent(string(document)); err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait for document: %w", err)
	}

	has, surface, err := page.Has("#" + render.SurfaceID)
	if err != nil {
		return nil, fmt.Errorf("locate document surface: %w", err)
	}
	if !has {
		return nil, fmt.Errorf("%w: document surface #%s not found", models.ErrLookup, render.SurfaceID)
	}

	png, err := surface.Screenshot(proto.PageCaptureScreenshotFormatPng, 100)
	if err != nil {
		return nil, fmt.Errorf("capture document surface: %w", err)
	}
	e.logger.Debug("document surface captured", zap.Int("bytes", len(png)))
	return png, nil
}

func (e *ChromeExporter) paginate(page *rod.Page, capture []byte) ([]byte, error) {
	placement, err := FitPNG(capture)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = pageTemplate.Execute(&buf, struct {
		Src                 template.URL
		X, Y, Width, Height string
	}{
		Src:    template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(capture)),
		X:      millimetres(placement.X),
		Y:      millimetres(placement.Y),
		Width:  millimetres(placement.Width),
		Height: millimetres(placement.Height),
	})
	if err != nil {
		return nil, fmt.Errorf("build print page: %w", err)
	}

	if err := (proto.EmulationClearDeviceMetricsOverride{}).Call(page); err != nil {
		return nil, fmt.Errorf("clear device metrics: %w", err)
	}
	if err := page.SetDocumentContent(buf.String()); err != nil {
		return nil, fmt.Errorf("load print page: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait for print page: %w", err)
	}

	stream, err := page.PDF(&proto.PagePrintToPDF{
		PaperWidth:        gson.Num(PageWidthMM / mmPerInch),
		PaperHeight:       gson.Num(PageHeightMM / mmPerInch),
		MarginTop:         gson.Num(0),
		MarginBottom:      gson.Num(0),
		MarginLeft:        gson.Num(0),
		MarginRight:       gson.Num(0),
		PrintBackground:   true,
		PreferCSSPageSize: true,
		PageRanges:        "1",
	})
	if err != nil {
		return nil, fmt.Errorf("print pdf: %w", err)
	}
	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("read pdf stream: %w", err)
	}
	return data, nil
}

func millimetres(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func (e *ChromeExporter) ensureBrowser() (*rod.Browser, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.browser != nil {
		if _, err := e.browser.Version(); err == nil {
			return e.browser, nil
		}
		e.logger.Warn("stale browser connection detected, reconnecting")
		_ = e.browser.Close()
		e.browser = nil
	}

	controlURL := e.cfg.DebuggerURL
	if controlURL == "" {
		l := launcher.New().Headless(e.cfg.Headless)
		if e.cfg.Bin != "" {
			l = l.Bin(e.cfg.Bin)
		}
		url, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch chrome: %w", err)
		}
		controlURL = url
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	e.browser = browser
	e.logger.Info("chrome connected", zap.String("control_url", controlURL))
	return browser, nil
}

// Close shuts the browser down if it was started.
func (e *ChromeExporter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.browser == nil {
		return nil
	}
	err := e.browser.Close()
	e.browser = nil
	return err
}
