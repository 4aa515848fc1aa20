package suprimento

import (
	"context"
	"fmt"

	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/shared"
	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/suprimento"
	"github.com/google/uuid"
)

// DocumentPDFRenderer produces the printable form of an execution document
type DocumentPDFRenderer interface {
	RenderDocument(ctx context.Context, c *suprimento.Case, doc *suprimento.ExecutionDocument) ([]byte, error)
}

// RenderService serves printable copies of execution documents
type RenderService struct {
	caseRepo suprimento.CaseRepository
	docRepo  suprimento.ExecutionDocumentRepository
	renderer DocumentPDFRenderer
}

// NewRenderService creates a new RenderService
func NewRenderService(
	caseRepo suprimento.CaseRepository,
	docRepo suprimento.ExecutionDocumentRepository,
	renderer DocumentPDFRenderer,
) *RenderService {
	return &RenderService{
		caseRepo: caseRepo,
		docRepo:  docRepo,
		renderer: renderer,
	}
}

// RenderedDocument is a printable document plus its suggested filename
type RenderedDocument struct {
	PDFData  []byte
	Filename string
}

// RenderDocument renders the given document of a case to PDF
func (s *RenderService) RenderDocument(ctx context.Context, caseID, documentID uuid.UUID) (*RenderedDocument, error) {
	c, err := s.caseRepo.FindByID(ctx, caseID)
	if err != nil {
		return nil, shared.ErrStorageUnavailable.WithDetails(err.Error())
	}
	if c == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Supply case not found")
	}

	doc, err := s.docRepo.FindByID(ctx, documentID)
	if err != nil {
		return nil, shared.ErrStorageUnavailable.WithDetails(err.Error())
	}
	if doc == nil || doc.CaseID != c.ID {
		return nil, shared.NewDomainError("NOT_FOUND", "Execution document not found in this case")
	}

	if s.renderer == nil {
		return nil, shared.NewDomainError(shared.CodeNotReady, "PDF rendering is disabled on this instance")
	}

	pdf, err := s.renderer.RenderDocument(ctx, c, doc)
	if err != nil {
		return nil, shared.NewDomainError(shared.CodeNotReady, "Document rendering failed").WithDetails(err.Error())
	}

	filename := fmt.Sprintf("%s_%s.pdf", c.ProtocolNumber, doc.Kind)
	return &RenderedDocument{PDFData: pdf, Filename: filename}, nil
}
