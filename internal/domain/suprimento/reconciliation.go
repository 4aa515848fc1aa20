package suprimento

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AmountStatus is the outcome of one leg of the triple reconciliation check.
// MISSING is distinct from INVALID: legacy cases may lack an amount entirely.
type AmountStatus string

const (
	AmountMissing AmountStatus = "MISSING"
	AmountValid   AmountStatus = "VALID"
	AmountInvalid AmountStatus = "INVALID"
	AmountWarning AmountStatus = "WARNING"
)

// String returns the string representation of AmountStatus
func (s AmountStatus) String() string {
	return string(s)
}

// AmountCheck is the evaluated status of one monetary document
type AmountCheck struct {
	Status     AmountStatus     `json:"status"`
	Message    string           `json:"message,omitempty"`
	Divergence *decimal.Decimal `json:"divergence,omitempty"` // Actual minus expected, when both exist
}

// TripleCheckInput carries the four amounts the engine compares. The three
// document amounts are optional pointers so that "missing" and "zero" stay
// distinguishable.
type TripleCheckInput struct {
	ApprovedValue decimal.Decimal
	Commitment    *decimal.Decimal
	Settlement    *decimal.Decimal
	Payment       *decimal.Decimal
}

// TripleCheckInputFromDocuments builds the engine input from a case's
// approved value and its document set
func TripleCheckInputFromDocuments(approved decimal.Decimal, docs DocumentSet) TripleCheckInput {
	return TripleCheckInput{
		ApprovedValue: approved,
		Commitment:    docs.AmountOf(KindCommitmentNote),
		Settlement:    docs.AmountOf(KindSettlementDocument),
		Payment:       docs.AmountOf(KindPaymentOrder),
	}
}

// TripleCheckReport is the full result of the three-way reconciliation
type TripleCheckReport struct {
	Commitment AmountCheck `json:"commitment"`
	Settlement AmountCheck `json:"settlement"`
	Payment    AmountCheck `json:"payment"`
}

// IsValid returns true iff all three statuses are VALID.
// Warnings do not count as hard errors but do prevent full validity.
func (r TripleCheckReport) IsValid() bool {
	return r.Commitment.Status == AmountValid &&
		r.Settlement.Status == AmountValid &&
		r.Payment.Status == AmountValid
}

// HardErrors returns the messages of all INVALID legs
func (r TripleCheckReport) HardErrors() []string {
	var errs []string
	for _, check := range []AmountCheck{r.Commitment, r.Settlement, r.Payment} {
		if check.Status == AmountInvalid {
			errs = append(errs, check.Message)
		}
	}
	return errs
}

// Warnings returns the messages of all WARNING legs
func (r TripleCheckReport) Warnings() []string {
	var warnings []string
	for _, check := range []AmountCheck{r.Commitment, r.Settlement, r.Payment} {
		if check.Status == AmountWarning {
			warnings = append(warnings, check.Message)
		}
	}
	return warnings
}

// TripleCheck is the reconciliation engine validating that committed,
// settled and paid amounts are internally consistent before funds move.
// It is a pure function of its input: no hidden state, identical inputs
// always yield identical reports.
type TripleCheck struct{}

// NewTripleCheck creates a new TripleCheck engine
func NewTripleCheck() *TripleCheck {
	return &TripleCheck{}
}

// Validate evaluates the three rules independently:
//   - commitment must equal the approved value
//   - settlement must equal the approved value; exceeding it is invalid,
//     falling short is a warning (partial settlement is legitimate)
//   - payment must equal the settlement, which is the authoritative executed
//     amount, not the original approved value
func (t *TripleCheck) Validate(input TripleCheckInput) TripleCheckReport {
	return TripleCheckReport{
		Commitment: t.checkCommitment(input),
		Settlement: t.checkSettlement(input),
		Payment:    t.checkPayment(input),
	}
}

func (t *TripleCheck) checkCommitment(input TripleCheckInput) AmountCheck {
	if input.Commitment == nil {
		return AmountCheck{Status: AmountMissing, Message: "Commitment note has no amount"}
	}
	if input.Commitment.Equal(input.ApprovedValue) {
		return AmountCheck{Status: AmountValid}
	}
	div := input.Commitment.Sub(input.ApprovedValue)
	return AmountCheck{
		Status: AmountInvalid,
		Message: fmt.Sprintf("Commitment R$%s diverges from approved value R$%s",
			input.Commitment.StringFixed(2), input.ApprovedValue.StringFixed(2)),
		Divergence: &div,
	}
}

func (t *TripleCheck) checkSettlement(input TripleCheckInput) AmountCheck {
	if input.Settlement == nil {
		return AmountCheck{Status: AmountMissing, Message: "Settlement document has no amount"}
	}
	if input.Settlement.Equal(input.ApprovedValue) {
		return AmountCheck{Status: AmountValid}
	}
	div := input.Settlement.Sub(input.ApprovedValue)
	if input.Settlement.GreaterThan(input.ApprovedValue) {
		return AmountCheck{
			Status: AmountInvalid,
			Message: fmt.Sprintf("Settlement R$%s exceeds approved value R$%s",
				input.Settlement.StringFixed(2), input.ApprovedValue.StringFixed(2)),
			Divergence: &div,
		}
	}
	// Partial settlement is flagged, not blocked
	return AmountCheck{
		Status: AmountWarning,
		Message: fmt.Sprintf("Settlement R$%s is below approved value R$%s (partial settlement)",
			input.Settlement.StringFixed(2), input.ApprovedValue.StringFixed(2)),
		Divergence: &div,
	}
}

func (t *TripleCheck) checkPayment(input TripleCheckInput) AmountCheck {
	if input.Payment == nil {
		return AmountCheck{Status: AmountMissing, Message: "Payment order has no amount"}
	}
	if input.Settlement == nil {
		return AmountCheck{
			Status:  AmountInvalid,
			Message: "Payment order exists but there is no settlement amount to match",
		}
	}
	if input.Payment.Equal(*input.Settlement) {
		return AmountCheck{Status: AmountValid}
	}
	div := input.Payment.Sub(*input.Settlement)
	return AmountCheck{
		Status: AmountInvalid,
		Message: fmt.Sprintf("Payment R$%s diverges from settlement R$%s",
			input.Payment.StringFixed(2), input.Settlement.StringFixed(2)),
		Divergence: &div,
	}
}
