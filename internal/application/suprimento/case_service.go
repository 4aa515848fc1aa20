package suprimento

import (
	"context"
	"fmt"
	"time"

	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/shared"
	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/shared/valueobject"
	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/suprimento"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CaseService provides application-level supply-case operations
type CaseService struct {
	caseRepo  suprimento.CaseRepository
	docRepo   suprimento.ExecutionDocumentRepository
	tramRepo  suprimento.TramitationRepository
	outbox    shared.OutboxRepository
	validator *suprimento.ConformityValidator
}

// NewCaseService creates a new CaseService
func NewCaseService(
	caseRepo suprimento.CaseRepository,
	docRepo suprimento.ExecutionDocumentRepository,
	tramRepo suprimento.TramitationRepository,
	outbox shared.OutboxRepository,
) *CaseService {
	return &CaseService{
		caseRepo:  caseRepo,
		docRepo:   docRepo,
		tramRepo:  tramRepo,
		outbox:    outbox,
		validator: suprimento.NewConformityValidator(),
	}
}

// CaseResponse represents a supply case in API responses
type CaseResponse struct {
	ID             uuid.UUID              `json:"id"`
	ProtocolNumber string                 `json:"protocol_number"`
	RequesterID    uuid.UUID              `json:"requester_id"`
	RequesterName  string                 `json:"requester_name"`
	RequesterCPF   string                 `json:"requester_cpf"`
	ManagerID      uuid.UUID              `json:"manager_id"`
	SupplyCategory string                 `json:"supply_category"`
	UnitCategory   string                 `json:"unit_category"`
	BudgetCode     string                 `json:"budget_code"`
	RequestedValue decimal.Decimal        `json:"requested_value"`
	ApprovedValue  decimal.Decimal        `json:"approved_value"`
	ValueFrozen    bool                   `json:"value_frozen"`
	Justification  string                 `json:"justification"`
	Bank           suprimento.BankAccount `json:"bank"`
	Custody        string                 `json:"custody"`
	CustodyName    string                 `json:"custody_name"`
	Status         string                 `json:"status"`
	AttestedAt     *time.Time             `json:"attested_at,omitempty"`
	AttestedBy     *uuid.UUID             `json:"attested_by,omitempty"`
	ReleasedAt     *time.Time             `json:"released_at,omitempty"`
	ArchivedAt     *time.Time             `json:"archived_at,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
	Version        int                    `json:"version"`
}

// CreateCaseRequest represents a request to open a supply case
type CreateCaseRequest struct {
	RequesterID    uuid.UUID              `json:"requester_id" binding:"required"`
	RequesterName  string                 `json:"requester_name" binding:"required"`
	RequesterCPF   string                 `json:"requester_cpf" binding:"required"`
	ManagerID      uuid.UUID              `json:"manager_id" binding:"required"`
	SupplyCategory string                 `json:"supply_category" binding:"required"`
	UnitCategory   string                 `json:"unit_category" binding:"required"`
	BudgetCode     string                 `json:"budget_code" binding:"required"`
	RequestedValue decimal.Decimal        `json:"requested_value" binding:"required"`
	Justification  string                 `json:"justification" binding:"required"`
	Bank           suprimento.BankAccount `json:"bank"`
}

// UpdateApprovedValueRequest adjusts the approved value during review
type UpdateApprovedValueRequest struct {
	ApprovedValue decimal.Decimal `json:"approved_value" binding:"required"`
}

// CaseListFilter defines filtering options for case list queries
type CaseListFilter struct {
	Search         string     `form:"search"`
	RequesterID    *uuid.UUID `form:"requester_id"`
	ManagerID      *uuid.UUID `form:"manager_id"`
	Custody        string     `form:"custody"`
	Status         string     `form:"status"`
	BudgetCode     string     `form:"budget_code"`
	SupplyCategory string     `form:"supply_category"`
	FromDate       *time.Time `form:"from_date"`
	ToDate         *time.Time `form:"to_date"`
	Page           int        `form:"page"`
	PageSize       int        `form:"page_size"`
}

// ConformityResponse is the full checklist plus its verdict
type ConformityResponse struct {
	CaseID    uuid.UUID            `json:"case_id"`
	Checklist suprimento.Checklist `json:"checklist"`
	AllValid  bool                 `json:"all_valid"`
}

// CreateCase opens a new supply case under requester custody and assigns the
// next protocol number for the year
func (s *CaseService) CreateCase(ctx context.Context, req CreateCaseRequest) (*CaseResponse, error) {
	year := time.Now().Year()
	seq, err := s.caseRepo.NextProtocolSequence(ctx, year)
	if err != nil {
		return nil, shared.ErrStorageUnavailable.WithDetails(err.Error())
	}
	protocol := fmt.Sprintf("SF-%d-%05d", year, seq)

	c, err := suprimento.NewCase(
		protocol,
		req.RequesterID,
		req.RequesterName,
		req.RequesterCPF,
		req.ManagerID,
		suprimento.SupplyCategory(req.SupplyCategory),
		suprimento.UnitCategory(req.UnitCategory),
		req.BudgetCode,
		valueobject.NewMoneyBRL(req.RequestedValue),
		req.Justification,
		req.Bank,
	)
	if err != nil {
		return nil, err
	}

	if err := s.caseRepo.Save(ctx, c); err != nil {
		return nil, shared.ErrStorageUnavailable.WithDetails(err.Error())
	}
	if err := enqueueEvents(ctx, s.outbox, c); err != nil {
		return nil, err
	}

	return toCaseResponse(c), nil
}

// GetCase gets a supply case by ID
func (s *CaseService) GetCase(ctx context.Context, id uuid.UUID) (*CaseResponse, error) {
	c, err := s.loadCase(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCaseResponse(c), nil
}

// GetCaseByProtocol gets a supply case by its protocol number
func (s *CaseService) GetCaseByProtocol(ctx context.Context, protocol string) (*CaseResponse, error) {
	c, err := s.caseRepo.FindByProtocol(ctx, protocol)
	if err != nil {
		return nil, shared.ErrStorageUnavailable.WithDetails(err.Error())
	}
	if c == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Supply case not found")
	}
	return toCaseResponse(c), nil
}

// ListCases lists supply cases with filtering
func (s *CaseService) ListCases(ctx context.Context, filter CaseListFilter) ([]CaseResponse, int64, error) {
	domainFilter := suprimento.CaseFilter{
		Filter: shared.Filter{
			Search:   filter.Search,
			Page:     filter.Page,
			PageSize: filter.PageSize,
		},
		RequesterID: filter.RequesterID,
		ManagerID:   filter.ManagerID,
		FromDate:    filter.FromDate,
		ToDate:      filter.ToDate,
	}
	if filter.Custody != "" {
		custody, ok := suprimento.ParseCustodyInput(filter.Custody)
		if !ok {
			return nil, 0, shared.ErrInvalidInput.WithDetails(
				fmt.Sprintf("unknown custody %q", filter.Custody))
		}
		domainFilter.Custody = &custody
	}
	if filter.Status != "" {
		status, ok := suprimento.ParseStatusInput(filter.Status)
		if !ok {
			return nil, 0, shared.ErrInvalidInput.WithDetails(
				fmt.Sprintf("unknown status %q", filter.Status))
		}
		domainFilter.Status = &status
	}
	if filter.BudgetCode != "" {
		domainFilter.BudgetCode = &filter.BudgetCode
	}
	if filter.SupplyCategory != "" {
		category := suprimento.SupplyCategory(filter.SupplyCategory)
		domainFilter.SupplyCategory = &category
	}

	cases, total, err := s.caseRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, shared.ErrStorageUnavailable.WithDetails(err.Error())
	}

	responses := make([]CaseResponse, len(cases))
	for i := range cases {
		responses[i] = *toCaseResponse(&cases[i])
	}
	return responses, total, nil
}

// SetApprovedValue adjusts the approved value during review. Fails once the
// commitment note froze the value.
func (s *CaseService) SetApprovedValue(ctx context.Context, id uuid.UUID, req UpdateApprovedValueRequest) (*CaseResponse, error) {
	c, err := s.loadCase(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := c.SetApprovedValue(valueobject.NewMoneyBRL(req.ApprovedValue)); err != nil {
		return nil, err
	}
	if err := s.caseRepo.Save(ctx, c); err != nil {
		return nil, shared.ErrStorageUnavailable.WithDetails(err.Error())
	}
	return toCaseResponse(c), nil
}

// ConformityReport evaluates the six-rule checklist without mutating the case
func (s *CaseService) ConformityReport(ctx context.Context, id uuid.UUID) (*ConformityResponse, error) {
	c, err := s.loadCase(ctx, id)
	if err != nil {
		return nil, err
	}
	docs, err := s.loadDocuments(ctx, id)
	if err != nil {
		return nil, err
	}

	checklist := s.validator.Validate(suprimento.SnapshotFromCase(c, docs))
	return &ConformityResponse{
		CaseID:    c.ID,
		Checklist: checklist,
		AllValid:  checklist.AllValid(),
	}, nil
}

// Attest records the manager attestation after the conformity checklist passes
// and moves custody to the audit office
func (s *CaseService) Attest(ctx context.Context, id, managerID uuid.UUID) (*CaseResponse, error) {
	c, err := s.loadCase(ctx, id)
	if err != nil {
		return nil, err
	}
	docs, err := s.loadDocuments(ctx, id)
	if err != nil {
		return nil, err
	}

	checklist := s.validator.Validate(suprimento.SnapshotFromCase(c, docs))
	// Attestation is the act being performed; its own checklist item is the
	// one rule the gate does not require upfront
	for _, item := range checklist.Failing() {
		if item.ID != suprimento.CheckAttestation {
			return nil, shared.NewDomainError(shared.CodeValidationFailed,
				"Conformity checklist has failing items").WithDetails(checklist)
		}
	}

	from := c.Custody
	if err := c.Attest(managerID); err != nil {
		return nil, err
	}
	if err := s.caseRepo.Save(ctx, c); err != nil {
		return nil, shared.ErrStorageUnavailable.WithDetails(err.Error())
	}
	if err := s.appendTrail(ctx, c, from, managerID, "Atesto do gestor"); err != nil {
		return nil, err
	}
	if err := enqueueEvents(ctx, s.outbox, c); err != nil {
		return nil, err
	}

	return toCaseResponse(c), nil
}

// Archive terminates the case lifecycle
func (s *CaseService) Archive(ctx context.Context, id uuid.UUID) (*CaseResponse, error) {
	c, err := s.loadCase(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := c.Archive(); err != nil {
		return nil, err
	}
	if err := s.caseRepo.Save(ctx, c); err != nil {
		return nil, shared.ErrStorageUnavailable.WithDetails(err.Error())
	}
	if err := enqueueEvents(ctx, s.outbox, c); err != nil {
		return nil, err
	}
	return toCaseResponse(c), nil
}

func (s *CaseService) loadCase(ctx context.Context, id uuid.UUID) (*suprimento.Case, error) {
	c, err := s.caseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.ErrStorageUnavailable.WithDetails(err.Error())
	}
	if c == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Supply case not found")
	}
	return c, nil
}

func (s *CaseService) loadDocuments(ctx context.Context, caseID uuid.UUID) (suprimento.DocumentSet, error) {
	docs, err := s.docRepo.FindByCase(ctx, caseID)
	if err != nil {
		return nil, shared.ErrStorageUnavailable.WithDetails(err.Error())
	}
	return suprimento.NewDocumentSet(docs), nil
}

func (s *CaseService) appendTrail(ctx context.Context, c *suprimento.Case, from suprimento.Custody, actorID uuid.UUID, note string) error {
	if from == c.Custody {
		return nil
	}
	entry, err := suprimento.NewTramitationEntry(c.ID, from, c.Custody, actorID, note)
	if err != nil {
		return err
	}
	if err := s.tramRepo.Append(ctx, entry); err != nil {
		return shared.ErrStorageUnavailable.WithDetails(err.Error())
	}
	return nil
}

// toCaseResponse converts a domain Case to CaseResponse
func toCaseResponse(c *suprimento.Case) *CaseResponse {
	return &CaseResponse{
		ID:             c.ID,
		ProtocolNumber: c.ProtocolNumber,
		RequesterID:    c.RequesterID,
		RequesterName:  c.RequesterName,
		RequesterCPF:   c.RequesterCPF,
		ManagerID:      c.ManagerID,
		SupplyCategory: c.SupplyCategory.String(),
		UnitCategory:   c.UnitCategory.String(),
		BudgetCode:     c.BudgetCode,
		RequestedValue: c.RequestedValue,
		ApprovedValue:  c.ApprovedValue,
		ValueFrozen:    c.ValueFrozen,
		Justification:  c.Justification,
		Bank:           c.Bank,
		Custody:        c.Custody.String(),
		CustodyName:    c.Custody.DisplayName(),
		Status:         c.Status.String(),
		AttestedAt:     c.AttestedAt,
		AttestedBy:     c.AttestedBy,
		ReleasedAt:     c.ReleasedAt,
		ArchivedAt:     c.ArchivedAt,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
		Version:        c.Version,
	}
}
