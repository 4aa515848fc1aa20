package suprimento

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// StatutoryCeiling is the maximum value a single petty-cash advance may
// request (R$15,000.00)
var StatutoryCeiling = decimal.NewFromInt(15000)

// MinJustificationLength is the minimum character count for the justification
const MinJustificationLength = 50

// Checklist item identifiers, one per conformity rule
const (
	CheckFullName      = "nome_completo"
	CheckCPF           = "cpf"
	CheckBankData      = "dados_bancarios"
	CheckValue         = "valor_solicitado"
	CheckJustification = "justificativa"
	CheckAttestation   = "atestado_gestor"
)

// ChecklistItemStatus is the outcome of one conformity rule
type ChecklistItemStatus string

const (
	ChecklistItemPending ChecklistItemStatus = "PENDING"
	ChecklistItemValid   ChecklistItemStatus = "VALID"
	ChecklistItemInvalid ChecklistItemStatus = "INVALID"
)

// ChecklistItem is the result of evaluating one conformity rule
type ChecklistItem struct {
	ID      string              `json:"id"`
	Label   string              `json:"label"`
	Status  ChecklistItemStatus `json:"status"`
	Message string              `json:"message,omitempty"`
}

// Checklist is the full, always-complete set of conformity results
type Checklist []ChecklistItem

// AllValid returns true iff every item is VALID
func (c Checklist) AllValid() bool {
	for _, item := range c {
		if item.Status != ChecklistItemValid {
			return false
		}
	}
	return len(c) > 0
}

// Failing returns the subset of items that are not VALID
func (c Checklist) Failing() Checklist {
	var failing Checklist
	for _, item := range c {
		if item.Status != ChecklistItemValid {
			failing = append(failing, item)
		}
	}
	return failing
}

// RequestSnapshot is the read-only view of a case the validator inspects
type RequestSnapshot struct {
	FullName       string
	CPF            string
	Bank           BankAccount
	RequestedValue decimal.Decimal
	Justification  string
	Custody        Custody
	Documents      DocumentSet
}

// SnapshotFromCase builds a validation snapshot from a case and its documents
func SnapshotFromCase(c *Case, docs DocumentSet) RequestSnapshot {
	return RequestSnapshot{
		FullName:       c.RequesterName,
		CPF:            c.RequesterCPF,
		Bank:           c.Bank,
		RequestedValue: c.RequestedValue,
		Justification:  c.Justification,
		Custody:        c.Custody,
		Documents:      docs,
	}
}

// ConformityValidator is the pure rule engine gating manager attestation.
// Validate never mutates state and always computes every rule so the caller
// can display all failures at once.
type ConformityValidator struct{}

// NewConformityValidator creates a new ConformityValidator
func NewConformityValidator() *ConformityValidator {
	return &ConformityValidator{}
}

// Validate evaluates the six conformity rules against a request snapshot.
// The checklist always contains exactly six items, order-stable, regardless
// of how many rules fail.
func (v *ConformityValidator) Validate(snapshot RequestSnapshot) Checklist {
	return Checklist{
		v.checkFullName(snapshot),
		v.checkCPF(snapshot),
		v.checkBankData(snapshot),
		v.checkRequestedValue(snapshot),
		v.checkJustification(snapshot),
		v.checkAttestation(snapshot),
	}
}

func (v *ConformityValidator) checkFullName(s RequestSnapshot) ChecklistItem {
	item := ChecklistItem{ID: CheckFullName, Label: "Nome completo do suprido"}
	tokens := strings.Fields(s.FullName)
	if len(tokens) < 2 {
		item.Status = ChecklistItemInvalid
		item.Message = "Full name must contain at least two names"
		return item
	}
	item.Status = ChecklistItemValid
	return item
}

func (v *ConformityValidator) checkCPF(s RequestSnapshot) ChecklistItem {
	item := ChecklistItem{ID: CheckCPF, Label: "CPF do suprido"}
	if !ValidCPF(s.CPF) {
		item.Status = ChecklistItemInvalid
		item.Message = "CPF fails check-digit validation (invalid checksum)"
		return item
	}
	item.Status = ChecklistItemValid
	return item
}

func (v *ConformityValidator) checkBankData(s RequestSnapshot) ChecklistItem {
	item := ChecklistItem{ID: CheckBankData, Label: "Dados bancários"}
	if !s.Bank.IsComplete() {
		item.Status = ChecklistItemInvalid
		item.Message = "Bank, branch and account are all required"
		return item
	}
	item.Status = ChecklistItemValid
	return item
}

func (v *ConformityValidator) checkRequestedValue(s RequestSnapshot) ChecklistItem {
	item := ChecklistItem{ID: CheckValue, Label: "Valor solicitado"}
	if s.RequestedValue.LessThanOrEqual(decimal.Zero) {
		item.Status = ChecklistItemInvalid
		item.Message = "Requested value must be greater than zero"
		return item
	}
	if s.RequestedValue.GreaterThan(StatutoryCeiling) {
		item.Status = ChecklistItemInvalid
		item.Message = fmt.Sprintf("Requested value R$%s exceeds ceiling R$15,000.00", s.RequestedValue.StringFixed(2))
		return item
	}
	item.Status = ChecklistItemValid
	return item
}

func (v *ConformityValidator) checkJustification(s RequestSnapshot) ChecklistItem {
	item := ChecklistItem{ID: CheckJustification, Label: "Justificativa"}
	text := strings.TrimSpace(s.Justification)
	if text == "" {
		item.Status = ChecklistItemInvalid
		item.Message = "Justification is required"
		return item
	}
	if len([]rune(text)) < MinJustificationLength {
		item.Status = ChecklistItemInvalid
		item.Message = fmt.Sprintf("Justification must have at least %d characters", MinJustificationLength)
		return item
	}
	item.Status = ChecklistItemValid
	return item
}

// checkAttestation accepts either proof path: a regularity certificate already
// in the case's document set, or custody already past the manager gate.
func (v *ConformityValidator) checkAttestation(s RequestSnapshot) ChecklistItem {
	item := ChecklistItem{ID: CheckAttestation, Label: "Atesto do gestor"}
	if s.Documents.Has(KindRegularityCertificate) || s.Custody.PastManagerGate() {
		item.Status = ChecklistItemValid
		return item
	}
	item.Status = ChecklistItemInvalid
	item.Message = "Manager attestation is pending"
	return item
}

// ValidCPF validates a Brazilian CPF: strips non-digits, rejects length != 11
// and all-identical sequences, then verifies the two mod-11 check digits
// (positional weights 10..2 and 11..2 respectively).
func ValidCPF(raw string) bool {
	var digits []int
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits = append(digits, int(r-'0'))
		}
	}
	if len(digits) != 11 {
		return false
	}

	identical := true
	for _, d := range digits[1:] {
		if d != digits[0] {
			identical = false
			break
		}
	}
	if identical {
		return false
	}

	if cpfCheckDigit(digits[:9], 10) != digits[9] {
		return false
	}
	return cpfCheckDigit(digits[:10], 11) == digits[10]
}

// cpfCheckDigit computes a mod-11 check digit with descending weights
// starting at firstWeight
func cpfCheckDigit(digits []int, firstWeight int) int {
	sum := 0
	for i, d := range digits {
		sum += d * (firstWeight - i)
	}
	remainder := sum % 11
	if remainder < 2 {
		return 0
	}
	return 11 - remainder
}
