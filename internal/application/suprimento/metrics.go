package suprimento

import "context"

// WorkflowMetrics records business-level counters for the execution
// workflow. The zero value of a service carries no recorder; wiring one is
// optional and done at startup.
type WorkflowMetrics interface {
	RecordDocumentGenerated(ctx context.Context, kind string)
	RecordDocumentSigned(ctx context.Context, kind string)
	RecordBudgetCommit(ctx context.Context, budgetCode, outcome string)
	RecordCaseTransition(ctx context.Context, status string)
}
