package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/matcert/internal/domain/models"
	"github.com/mamadbah2/matcert/internal/render"
	"github.com/mamadbah2/matcert/pkg/clients/converter"
)

// assetSettleDelay lets the converter finish loading images before printing.
const assetSettleDelay = 500 * time.Millisecond

var surfaceMarker = []byte(`id="` + render.SurfaceID + `"`)

// RemoteExporter delegates rasterizing and pagination to a conversion service.
type RemoteExporter struct {
	client converter.Client
	logger *zap.Logger
}

// NewRemoteExporter wires an exporter around a converter client.
func NewRemoteExporter(client converter.Client, logger *zap.Logger) *RemoteExporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RemoteExporter{client: client, logger: logger}
}

// Export sends document to the converter and returns the PDF.
func (e *RemoteExporter) Export(ctx context.Context, document []byte) ([]byte, error) {
	if !bytes.Contains(document, surfaceMarker) {
		return nil, fmt.Errorf("%w: document surface #%s not found", models.ErrLookup, render.SurfaceID)
	}

	data, err := e.client.ConvertHTML(ctx, converter.ConvertHTMLRequest{
		HTML:            document,
		PaperWidth:      PageWidthMM / mmPerInch,
		PaperHeight:     PageHeightMM / mmPerInch,
		PrintBackground: true,
		WaitDelay:       assetSettleDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrExport, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: converter returned an empty document", models.ErrExport)
	}

	e.logger.Debug("remote conversion finished", zap.Int("bytes", len(data)))
	return data, nil
}
