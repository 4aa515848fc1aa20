package rendering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/suprimento"
)

// DocumentRenderer produces printable output for execution documents by
// combining the fixed layouts with a PDF backend.
type DocumentRenderer struct {
	engine *TemplateEngine
	pdf    PDFRenderer
	logger *zap.Logger
}

// NewDocumentRenderer creates a document renderer
func NewDocumentRenderer(pdf PDFRenderer, logger *zap.Logger) *DocumentRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentRenderer{
		engine: NewTemplateEngine(),
		pdf:    pdf,
		logger: logger,
	}
}

// RenderHTML renders the document layout for the given case and document
func (r *DocumentRenderer) RenderHTML(c *suprimento.Case, doc *suprimento.ExecutionDocument) (string, error) {
	body, ok := TemplateFor(doc.Kind)
	if !ok {
		return "", NewRenderError(ErrCodeUnknownTemplate,
			fmt.Sprintf("no layout registered for document kind %q", doc.Kind), nil)
	}

	data := NewDocumentData(c, doc)
	return r.engine.Render(string(doc.Kind), body, data)
}

// RenderDocument renders the document and returns the raw PDF bytes
func (r *DocumentRenderer) RenderDocument(ctx context.Context, c *suprimento.Case, doc *suprimento.ExecutionDocument) ([]byte, error) {
	result, err := r.RenderPDF(ctx, c, doc)
	if err != nil {
		return nil, err
	}
	return result.PDFData, nil
}

// RenderPDF renders the document to PDF
func (r *DocumentRenderer) RenderPDF(ctx context.Context, c *suprimento.Case, doc *suprimento.ExecutionDocument) (*RenderResult, error) {
	html, err := r.RenderHTML(c, doc)
	if err != nil {
		return nil, err
	}

	title := fmt.Sprintf("%s - %s", doc.Kind.DisplayName(), c.ProtocolNumber)

	result, err := r.pdf.Render(ctx, &RenderRequest{
		HTML:  html,
		Title: title,
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debug("execution document rendered",
		zap.String("protocol", c.ProtocolNumber),
		zap.String("kind", string(doc.Kind)),
		zap.Int("bytes", len(result.PDFData)),
	)

	return result, nil
}
