package suprimento

import (
	"context"
	"fmt"
	"strings"

	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/shared"
	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// prerequisiteRule maps a document kind to the kinds that must exist before
// it can be drafted, and the minimum status those prerequisites must hold.
type prerequisiteRule struct {
	Kinds    []DocumentKind
	Required DocumentStatus // DRAFTED means drafted-or-signed; SIGNED means fully signed
}

// prerequisites is the data-driven transition table of the state machine.
// SettlementDocument is stricter than the others: it represents actual
// expenditure against a signed commitment, so its prerequisites must be
// SIGNED, not merely drafted.
var prerequisites = map[DocumentKind]prerequisiteRule{
	KindAuthorizationOrder: {},
	KindRegularityCertificate: {
		Kinds:    []DocumentKind{KindAuthorizationOrder},
		Required: DocumentStatusDrafted,
	},
	KindCommitmentNote: {
		Kinds:    []DocumentKind{KindRegularityCertificate},
		Required: DocumentStatusDrafted,
	},
	KindSettlementDocument: {
		Kinds:    []DocumentKind{KindAuthorizationOrder, KindRegularityCertificate, KindCommitmentNote},
		Required: DocumentStatusSigned,
	},
	KindPaymentOrder: {
		Kinds:    []DocumentKind{KindSettlementDocument},
		Required: DocumentStatusDrafted,
	},
}

// PrerequisiteDetails names the prerequisite kind that blocked a transition
type PrerequisiteDetails struct {
	Kind         DocumentKind   `json:"kind"`
	Prerequisite DocumentKind   `json:"prerequisite"`
	Required     DocumentStatus `json:"required_status"`
	Current      DocumentStatus `json:"current_status"`
}

// RegularityChecker is the boundary to the external compliance-hold check
// consulted before a regularity certificate can be drafted
type RegularityChecker interface {
	// Check returns whether the requester has open compliance holds
	Check(ctx context.Context, requesterID uuid.UUID) (RegularityResult, error)
}

// RegularityResult is the outcome of the external regularity check
type RegularityResult struct {
	Passed  bool     `json:"passed"`
	Reasons []string `json:"reasons,omitempty"`
}

// BudgetCommitter is the port through which the workflow books commitments.
// Implementations must perform the check-and-increment atomically.
type BudgetCommitter interface {
	// Commit books the amount against the code and returns the new cumulative
	// committed total, or a BUDGET_EXCEEDED error
	Commit(ctx context.Context, code string, amount decimal.Decimal) (decimal.Decimal, error)
}

// DocumentWorkflow is the domain service governing the ordered generation and
// signing of the five execution documents of a case.
type DocumentWorkflow struct {
	regularity RegularityChecker
	ledger     BudgetCommitter
	triple     *TripleCheck
}

// NewDocumentWorkflow creates a new DocumentWorkflow
func NewDocumentWorkflow(regularity RegularityChecker, ledger BudgetCommitter) *DocumentWorkflow {
	return &DocumentWorkflow{
		regularity: regularity,
		ledger:     ledger,
		triple:     NewTripleCheck(),
	}
}

// CanGenerate reports whether a document of the given kind may be drafted for
// the current document set. Pure: never mutates, never calls boundaries.
// On failure the returned reason names the blocking prerequisite.
func (w *DocumentWorkflow) CanGenerate(docs DocumentSet, kind DocumentKind) (bool, string) {
	if !kind.IsValid() {
		return false, fmt.Sprintf("unknown document kind %q", kind)
	}
	if docs.Has(kind) {
		return false, fmt.Sprintf("%s already generated", kind)
	}

	if blocking, ok := blockingPrerequisite(docs, kind); ok {
		required := prerequisites[kind].Required
		return false, fmt.Sprintf("prerequisite %s not %s", blocking, strings.ToLower(required.String()))
	}
	return true, ""
}

// blockingPrerequisite returns the unmet prerequisite closest to the requested
// kind in the document sequence. When several are unmet, naming the
// highest-sequence one points the operator at the next actionable gap rather
// than the top of the chain.
func blockingPrerequisite(docs DocumentSet, kind DocumentKind) (DocumentKind, bool) {
	rule := prerequisites[kind]
	var blocking DocumentKind
	found := false
	for _, prereq := range rule.Kinds {
		if !prereqSatisfied(docs.StatusOf(prereq), rule.Required) {
			blocking = prereq
			found = true
		}
	}
	return blocking, found
}

func prereqSatisfied(current, required DocumentStatus) bool {
	if required == DocumentStatusSigned {
		return current == DocumentStatusSigned
	}
	return current.AtLeastDrafted()
}

// Generate validates the transition and creates the document in DRAFTED state.
// For the regularity certificate the external compliance check must pass; for
// the commitment note the budget ledger must accept the commitment, after
// which the case's approved value is frozen.
func (w *DocumentWorkflow) Generate(
	ctx context.Context,
	c *Case,
	docs DocumentSet,
	kind DocumentKind,
	amount *valueobject.Money,
	formData []byte,
) (*ExecutionDocument, error) {
	ok, reason := w.CanGenerate(docs, kind)
	if !ok {
		return nil, w.prerequisiteError(docs, kind, reason)
	}

	switch kind {
	case KindRegularityCertificate:
		result, err := w.regularity.Check(ctx, c.RequesterID)
		if err != nil {
			return nil, err
		}
		if !result.Passed {
			return nil, shared.NewDomainError(shared.CodePrerequisiteNotMet,
				fmt.Sprintf("Requester has open compliance holds: %s", strings.Join(result.Reasons, "; "))).
				WithDetails(result)
		}

	case KindCommitmentNote:
		if amount == nil {
			return nil, shared.NewDomainError("INVALID_AMOUNT", "Commitment note requires an amount")
		}
		newTotal, err := w.ledger.Commit(ctx, c.BudgetCode, amount.Amount())
		if err != nil {
			return nil, err
		}
		c.FreezeApprovedValue()
		c.AddDomainEvent(NewBudgetCommittedEvent(c.BudgetCode, c.ID, amount.Amount(), newTotal))
	}

	doc, err := NewExecutionDocument(c.ID, kind, amount, formData)
	if err != nil {
		return nil, err
	}

	c.MarkInExecution()

	return doc, nil
}

// Sign transitions a document DRAFTED -> SIGNED. Signing an already-signed
// document is a no-op success. Settlement and payment documents must
// pass the triple reconciliation check before signature.
func (w *DocumentWorkflow) Sign(c *Case, docs DocumentSet, doc *ExecutionDocument, signerID uuid.UUID) error {
	if doc.IsSigned() {
		return nil
	}

	switch doc.Kind {
	case KindSettlementDocument, KindPaymentOrder:
		report := w.triple.Validate(TripleCheckInputFromDocuments(c.ApprovedValue, docs))
		if err := w.reconciliationGate(doc.Kind, report); err != nil {
			return err
		}
	}

	return doc.MarkSigned(signerID)
}

// reconciliationGate applies the per-kind acceptance rule for signing:
// the settlement leg may carry a partial-settlement warning, the payment leg
// must match the settlement exactly.
func (w *DocumentWorkflow) reconciliationGate(kind DocumentKind, report TripleCheckReport) error {
	switch kind {
	case KindSettlementDocument:
		if report.Commitment.Status != AmountValid {
			return NewReconciliationFailedError(report, report.Commitment.Message)
		}
		if report.Settlement.Status != AmountValid && report.Settlement.Status != AmountWarning {
			return NewReconciliationFailedError(report, report.Settlement.Message)
		}
	case KindPaymentOrder:
		if report.Payment.Status != AmountValid {
			return NewReconciliationFailedError(report, report.Payment.Message)
		}
	}
	return nil
}

// NewReconciliationFailedError builds the RECONCILIATION_FAILED domain error
// carrying the full report so the caller sees exactly which amount diverged
func NewReconciliationFailedError(report TripleCheckReport, message string) *shared.DomainError {
	if message == "" {
		message = "Reconciliation between commitment, settlement and payment failed"
	}
	return shared.NewDomainError(shared.CodeReconciliationFailed, message).WithDetails(report)
}

// Reconcile exposes the triple check for read-only reporting
func (w *DocumentWorkflow) Reconcile(c *Case, docs DocumentSet) TripleCheckReport {
	return w.triple.Validate(TripleCheckInputFromDocuments(c.ApprovedValue, docs))
}

// RoutableToFinance returns true when the authorization order, regularity
// certificate and commitment note are all at least drafted
func RoutableToFinance(docs DocumentSet) bool {
	return docs.StatusOf(KindAuthorizationOrder).AtLeastDrafted() &&
		docs.StatusOf(KindRegularityCertificate).AtLeastDrafted() &&
		docs.StatusOf(KindCommitmentNote).AtLeastDrafted()
}

// RoutableForFinalPayment returns true when the settlement document and
// payment order are both at least drafted
func RoutableForFinalPayment(docs DocumentSet) bool {
	return docs.StatusOf(KindSettlementDocument).AtLeastDrafted() &&
		docs.StatusOf(KindPaymentOrder).AtLeastDrafted()
}

func (w *DocumentWorkflow) prerequisiteError(docs DocumentSet, kind DocumentKind, reason string) *shared.DomainError {
	err := shared.NewDomainError(shared.CodePrerequisiteNotMet, reason)
	if blocking, ok := blockingPrerequisite(docs, kind); ok {
		return err.WithDetails(PrerequisiteDetails{
			Kind:         kind,
			Prerequisite: blocking,
			Required:     prerequisites[kind].Required,
			Current:      docs.StatusOf(blocking),
		})
	}
	return err
}
