// Package export turns a rendered certificate into a printable A4 PDF.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/matcert/internal/domain/models"
	"github.com/mamadbah2/matcert/internal/render"
	"github.com/mamadbah2/matcert/internal/service/certificate"
)

// DefaultFilename is used when the record has no party name.
const DefaultFilename = "Material_Certificate.pdf"

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Exporter converts a rendered HTML document into PDF bytes.
type Exporter interface {
	Export(ctx context.Context, document []byte) ([]byte, error)
}

// Result is a finished export.
type Result struct {
	Filename string
	Data     []byte
	// Path is set when the file was also written to the output directory.
	Path string
}

// Filename derives the output name from the party name.
func Filename(partyName string) string {
	if partyName == "" {
		return DefaultFilename
	}
	return "Material_Certificate_" + unsafeFilenameChars.ReplaceAllString(partyName, "_") + ".pdf"
}

// Service renders records and hands them to an Exporter.
type Service struct {
	exporter  Exporter
	issuer    render.Issuer
	outputDir string
	timeout   time.Duration
	logger    *zap.Logger
}

// Options configures a Service.
type Options struct {
	Issuer    render.Issuer
	OutputDir string
	Timeout   time.Duration
}

// NewService wires an export service.
func NewService(exporter Exporter, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		exporter:  exporter,
		issuer:    opts.Issuer,
		outputDir: opts.OutputDir,
		timeout:   opts.Timeout,
		logger:    logger,
	}
}

// Preview renders the record as the HTML document surface.
func (s *Service) Preview(record models.CertificateRecord) ([]byte, error) {
	if err := certificate.ValidateForExport(record); err != nil {
		return nil, err
	}
	return render.Document(render.Build(record, s.issuer))
}

// Export renders the record, converts it to PDF and optionally saves it.
func (s *Service) Export(ctx context.Context, record models.CertificateRecord) (*Result, error) {
	document, err := s.Preview(record)
	if err != nil {
		return nil, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	data, err := s.exporter.Export(ctx, document)
	if err != nil {
		if errors.Is(err, models.ErrLookup) || errors.Is(err, models.ErrExport) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", models.ErrExport, err)
	}

	result := &Result{Filename: Filename(record.PartyName), Data: data}
	if s.outputDir != "" {
		path, err := s.save(result)
		if err != nil {
			return nil, err
		}
		result.Path = path
	}

	s.logger.Info("certificate exported",
		zap.String("certificate_number", record.CertificateNumber),
		zap.String("filename", result.Filename),
		zap.Int("bytes", len(data)),
		zap.Duration("duration", time.Since(start)))

	return result, nil
}

func (s *Service) save(result *Result) (string, error) {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create output dir: %w", models.ErrExport, err)
	}
	path := filepath.Join(s.outputDir, result.Filename)
	if err := os.WriteFile(path, result.Data, 0o644); err != nil {
		return "", fmt.Errorf("%w: write %s: %w", models.ErrExport, path, err)
	}
	return path, nil
}
