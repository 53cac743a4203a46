package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
)

// SurfaceID is the element id the exporters capture.
const SurfaceID = "certificate-preview"

//go:embed templates/certificate.html.tmpl
var templateFS embed.FS

var certificateTemplate = template.Must(
	template.New("certificate.html.tmpl").
		Funcs(template.FuncMap{"surfaceID": func() string { return SurfaceID }}).
		ParseFS(templateFS, "templates/certificate.html.tmpl"),
)

// HTML writes the layout as a standalone HTML page.
func HTML(w io.Writer, layout Layout) error {
	if err := certificateTemplate.Execute(w, layout); err != nil {
		return fmt.Errorf("render certificate html: %w", err)
	}
	return nil
}

// Document renders the layout into memory.
func Document(layout Layout) ([]byte, error) {
	var buf bytes.Buffer
	if err := HTML(&buf, layout); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
