package suprimento

import (
	"fmt"
	"time"

	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/shared"
	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Custody represents the institutional role that currently holds a case
type Custody string

const (
	CustodyRequester     Custody = "REQUESTER"      // Suprido
	CustodyManager       Custody = "MANAGER"        // Gestor
	CustodyAuditOffice   Custody = "AUDIT_OFFICE"   // Setor de conformidade/execução
	CustodyLegalOffice   Custody = "LEGAL_OFFICE"   // Setor jurídico-financeiro
	CustodyFinanceOffice Custody = "FINANCE_OFFICE" // Setor de assinatura financeira
)

// IsValid checks if the custody is a valid Custody
func (c Custody) IsValid() bool {
	switch c {
	case CustodyRequester, CustodyManager, CustodyAuditOffice, CustodyLegalOffice, CustodyFinanceOffice:
		return true
	}
	return false
}

// String returns the string representation of Custody
func (c Custody) String() string {
	return string(c)
}

// DisplayName returns a human-readable name for the custody role
func (c Custody) DisplayName() string {
	switch c {
	case CustodyRequester:
		return "Suprido"
	case CustodyManager:
		return "Gestor"
	case CustodyAuditOffice:
		return "Setor de Execução Orçamentária"
	case CustodyLegalOffice:
		return "Setor Jurídico-Financeiro"
	case CustodyFinanceOffice:
		return "Setor Financeiro"
	default:
		return string(c)
	}
}

// PastManagerGate returns true if a case held by this custody has necessarily
// already cleared the manager attestation gate
func (c Custody) PastManagerGate() bool {
	switch c {
	case CustodyAuditOffice, CustodyLegalOffice, CustodyFinanceOffice:
		return true
	}
	return false
}

// SupplyCategory classifies the advance request
type SupplyCategory string

const (
	SupplyCategoryOrdinary      SupplyCategory = "ORDINARY"      // Suprimento ordinário
	SupplyCategoryExtraordinary SupplyCategory = "EXTRAORDINARY" // Suprimento extraordinário
)

// IsValid checks if the category is a valid SupplyCategory
func (c SupplyCategory) IsValid() bool {
	return c == SupplyCategoryOrdinary || c == SupplyCategoryExtraordinary
}

// String returns the string representation of SupplyCategory
func (c SupplyCategory) String() string {
	return string(c)
}

// UnitCategory classifies the requesting unit
type UnitCategory string

const (
	UnitCategoryJurisdictional UnitCategory = "JURISDICTIONAL" // Unidade judiciária
	UnitCategoryAdministrative UnitCategory = "ADMINISTRATIVE" // Unidade administrativa
)

// IsValid checks if the category is a valid UnitCategory
func (c UnitCategory) IsValid() bool {
	return c == UnitCategoryJurisdictional || c == UnitCategoryAdministrative
}

// String returns the string representation of UnitCategory
func (c UnitCategory) String() string {
	return string(c)
}

// CaseStatus represents the institutional status of a case
type CaseStatus string

const (
	CaseStatusOpen               CaseStatus = "OPEN"                // Created by requester
	CaseStatusAttested           CaseStatus = "ATTESTED"            // Manager attestation granted
	CaseStatusInExecution        CaseStatus = "IN_EXECUTION"        // Execution documents being generated
	CaseStatusAwaitingSignature  CaseStatus = "AWAITING_SIGNATURE"  // Routed to finance office
	CaseStatusAwaitingSettlement CaseStatus = "AWAITING_SETTLEMENT" // Signed batch back, settlement/payment pending
	CaseStatusFundsReleased      CaseStatus = "FUNDS_RELEASED"      // Payment order executed
	CaseStatusArchived           CaseStatus = "ARCHIVED"            // Terminal
)

// IsValid checks if the status is a valid CaseStatus
func (s CaseStatus) IsValid() bool {
	switch s {
	case CaseStatusOpen, CaseStatusAttested, CaseStatusInExecution,
		CaseStatusAwaitingSignature, CaseStatusAwaitingSettlement,
		CaseStatusFundsReleased, CaseStatusArchived:
		return true
	}
	return false
}

// String returns the string representation of CaseStatus
func (s CaseStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the case is in a terminal state
func (s CaseStatus) IsTerminal() bool {
	return s == CaseStatusArchived
}

// BankAccount holds the requester's banking data used for the fund release
type BankAccount struct {
	Bank    string `gorm:"type:varchar(100)" json:"bank"`
	Branch  string `gorm:"type:varchar(20)" json:"branch"`
	Account string `gorm:"type:varchar(30)" json:"account"`
}

// IsComplete returns true when all banking fields are filled
func (b BankAccount) IsComplete() bool {
	return b.Bank != "" && b.Branch != "" && b.Account != ""
}

// Case represents one petty-cash advance request tracked end-to-end.
// It is the aggregate root for the execution-document workflow.
type Case struct {
	shared.ProcessRecord
	ProtocolNumber string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	RequesterID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	RequesterName  string          `gorm:"type:varchar(200);not null"`
	RequesterCPF   string          `gorm:"type:varchar(14);not null"`
	ManagerID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	SupplyCategory SupplyCategory  `gorm:"type:varchar(20);not null"`
	UnitCategory   UnitCategory    `gorm:"type:varchar(20);not null"`
	BudgetCode     string          `gorm:"type:varchar(20);not null;index"`
	RequestedValue decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ApprovedValue  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ValueFrozen    bool            `gorm:"not null;default:false"` // Set once a CommitmentNote exists
	Justification  string          `gorm:"type:text;not null"`
	Bank           BankAccount     `gorm:"embedded;embeddedPrefix:bank_"`
	Custody        Custody         `gorm:"type:varchar(20);not null;index"`
	PriorCustody   Custody         `gorm:"type:varchar(20)"` // Holder before the last transfer
	Status         CaseStatus      `gorm:"type:varchar(25);not null;default:'OPEN';index"`
	AttestedAt     *time.Time
	AttestedBy     *uuid.UUID `gorm:"type:uuid"`
	ReleasedAt     *time.Time
	ArchivedAt     *time.Time
}

// TableName returns the table name for GORM
func (Case) TableName() string {
	return "supply_cases"
}

// NewCase creates a new petty-cash advance case held by the requester
func NewCase(
	protocolNumber string,
	requesterID uuid.UUID,
	requesterName string,
	requesterCPF string,
	managerID uuid.UUID,
	supplyCategory SupplyCategory,
	unitCategory UnitCategory,
	budgetCode string,
	requestedValue valueobject.Money,
	justification string,
	bank BankAccount,
) (*Case, error) {
	if protocolNumber == "" {
		return nil, shared.NewDomainError("INVALID_PROTOCOL", "Protocol number cannot be empty")
	}
	if requesterID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REQUESTER", "Requester ID cannot be empty")
	}
	if managerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MANAGER", "Manager ID cannot be empty")
	}
	if !supplyCategory.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Supply category is not valid")
	}
	if !unitCategory.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Unit category is not valid")
	}
	if budgetCode == "" {
		return nil, shared.NewDomainError("INVALID_BUDGET_CODE", "Budget code cannot be empty")
	}
	if !requestedValue.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Requested value must be positive")
	}

	c := &Case{
		ProcessRecord:  shared.NewProcessRecord(),
		ProtocolNumber: protocolNumber,
		RequesterID:    requesterID,
		RequesterName:  requesterName,
		RequesterCPF:   requesterCPF,
		ManagerID:      managerID,
		SupplyCategory: supplyCategory,
		UnitCategory:   unitCategory,
		BudgetCode:     budgetCode,
		RequestedValue: requestedValue.Amount(),
		ApprovedValue:  requestedValue.Amount(), // May be adjusted during review
		Justification:  justification,
		Bank:           bank,
		Custody:        CustodyRequester,
		Status:         CaseStatusOpen,
	}

	c.AddDomainEvent(NewCaseCreatedEvent(c))

	return c, nil
}

// GetRequestedValueMoney returns the requested value as Money
func (c *Case) GetRequestedValueMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(c.RequestedValue)
}

// GetApprovedValueMoney returns the approved value as Money
func (c *Case) GetApprovedValueMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(c.ApprovedValue)
}

// SetApprovedValue adjusts the approved value during review.
// The approved value is immutable once a CommitmentNote exists.
func (c *Case) SetApprovedValue(value valueobject.Money) error {
	if c.ValueFrozen {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			"Approved value is immutable after the commitment note is generated")
	}
	if !value.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Approved value must be positive")
	}

	c.ApprovedValue = value.Amount()
	c.Touch()
	return nil
}

// FreezeApprovedValue marks the approved value as immutable.
// Called by the workflow when the CommitmentNote is generated.
func (c *Case) FreezeApprovedValue() {
	if c.ValueFrozen {
		return
	}
	c.ValueFrozen = true
	c.Touch()
}

// Attest records the manager attestation and moves custody to the audit office
func (c *Case) Attest(managerID uuid.UUID) error {
	if c.Status != CaseStatusOpen {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Cannot attest case in %s status", c.Status))
	}
	if managerID == uuid.Nil {
		return shared.NewDomainError("INVALID_MANAGER", "Attesting manager ID is required")
	}

	now := time.Now()
	c.Status = CaseStatusAttested
	c.AttestedAt = &now
	c.AttestedBy = &managerID
	c.transferCustody(CustodyAuditOffice)
	c.Touch()

	c.AddDomainEvent(NewCaseAttestedEvent(c, managerID))

	return nil
}

// MarkInExecution flags the case as having execution documents under generation
func (c *Case) MarkInExecution() {
	if c.Status == CaseStatusAttested {
		c.Status = CaseStatusInExecution
		c.Touch()
	}
}

// RouteTo transfers institutional custody to another role
func (c *Case) RouteTo(to Custody, status CaseStatus) error {
	if !to.IsValid() {
		return shared.NewDomainError(shared.CodeInvalidTransition, "Target custody is not valid")
	}
	if c.Status.IsTerminal() {
		return shared.NewDomainError(shared.CodeInvalidTransition, "Cannot route an archived case")
	}

	from := c.Custody
	c.transferCustody(to)
	if status.IsValid() {
		c.Status = status
	}
	c.Touch()

	c.AddDomainEvent(NewCustodyTransferredEvent(c, from, to))

	return nil
}

// ReturnToPriorCustody reverses custody to the previous holder
func (c *Case) ReturnToPriorCustody() error {
	if !c.PriorCustody.IsValid() {
		return shared.NewDomainError(shared.CodeInvalidTransition, "Case has no prior custody to return to")
	}
	return c.RouteTo(c.PriorCustody, "")
}

// ReleaseFunds marks the case as paid out
func (c *Case) ReleaseFunds() error {
	if c.Status != CaseStatusAwaitingSettlement {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Cannot release funds for case in %s status", c.Status))
	}

	now := time.Now()
	c.Status = CaseStatusFundsReleased
	c.ReleasedAt = &now
	c.Touch()

	c.AddDomainEvent(NewFundsReleasedEvent(c))

	return nil
}

// Archive terminates the case lifecycle
func (c *Case) Archive() error {
	if c.Status.IsTerminal() {
		return nil
	}

	now := time.Now()
	c.Status = CaseStatusArchived
	c.ArchivedAt = &now
	c.Touch()

	c.AddDomainEvent(NewCaseArchivedEvent(c))

	return nil
}

// IsAttested returns true if the manager has attested the request
func (c *Case) IsAttested() bool {
	return c.AttestedAt != nil
}

func (c *Case) transferCustody(to Custody) {
	if to == c.Custody {
		return
	}
	c.PriorCustody = c.Custody
	c.Custody = to
}
