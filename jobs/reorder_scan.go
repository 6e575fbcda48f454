package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	"github.com/plastline/plastline-ops/internal/stock"
)

const (
	// TaskReorderScan triggers the nightly reorder-level sweep.
	TaskReorderScan = "stock:reorder_scan"
)

// ReorderScanPayload carries scheduling metadata.
type ReorderScanPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewReorderScanTask constructs the Asynq task for the reorder sweep.
func NewReorderScanTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(ReorderScanPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReorderScan, body, asynq.Queue(QueueDefault)), nil
}

// AlertSource lists materials at or below their reorder level.
type AlertSource interface {
	ListReorderAlerts(ctx context.Context) ([]stock.ReorderAlert, error)
}

// Enqueuer submits follow-up tasks. Satisfied by Client.
type Enqueuer interface {
	EnqueueSendEmail(ctx context.Context, payload SendEmailPayload) (*asynq.TaskInfo, error)
}

// ReorderScanner emails purchasing when materials run low.
type ReorderScanner struct {
	source  AlertSource
	mail    Enqueuer
	alertTo string
	logger  *slog.Logger
}

// NewReorderScanner constructs the scanner. An empty alertTo disables the
// email and the sweep only logs its findings.
func NewReorderScanner(source AlertSource, mail Enqueuer, alertTo string, logger *slog.Logger) *ReorderScanner {
	return &ReorderScanner{source: source, mail: mail, alertTo: alertTo, logger: logger}
}

// HandleTask processes TaskReorderScan tasks.
func (s *ReorderScanner) HandleTask(ctx context.Context, t *asynq.Task) error {
	var payload ReorderScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	alerts, err := s.source.ListReorderAlerts(ctx)
	if err != nil {
		return fmt.Errorf("reorder scan: %w", err)
	}
	s.logger.Info("reorder scan finished", slog.Int("alerts", len(alerts)))
	if len(alerts) == 0 || s.alertTo == "" || s.mail == nil {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d material(s) at or below reorder level:\n\n", len(alerts))
	for _, a := range alerts {
		fmt.Fprintf(&b, "- %s (%s): %.2f %s on hand, min %.2f\n", a.Name, a.SKU, a.Quantity, a.UOM, a.ReorderLevel)
	}

	_, err = s.mail.EnqueueSendEmail(ctx, SendEmailPayload{
		To:      s.alertTo,
		Subject: fmt.Sprintf("Re-Order Alert: %d material(s) low", len(alerts)),
		Body:    b.String(),
	})
	if err != nil {
		return fmt.Errorf("enqueue reorder email: %w", err)
	}
	return nil
}
