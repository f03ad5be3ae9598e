package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail is the task type for sending transactional emails.
	TaskTypeSendEmail = "mail:send"
	// TaskTypeCleaningGenerate builds the housekeeping board for a date.
	TaskTypeCleaningGenerate = "cleaning:generate"
	// TaskTypeReportsWarmup precomputes the cached monthly reports.
	TaskTypeReportsWarmup = "reports:warmup"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// HandleSendEmailTask processes TaskTypeSendEmail tasks.
func HandleSendEmailTask(ctx context.Context, t *asynq.Task) error {
	var payload SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	// Placeholder until the SMTP relay is provisioned.
	slog.Info("send email", slog.String("to", payload.To), slog.String("subject", payload.Subject))
	return nil
}

// CleaningGeneratePayload names the date to build the board for. An empty
// date means today.
type CleaningGeneratePayload struct {
	Date string `json:"date,omitempty"`
}

// NewCleaningGenerateTask constructs an Asynq task.
func NewCleaningGenerateTask(payload CleaningGeneratePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeCleaningGenerate, data), nil
}

// CleaningGenerator is the slice of the housekeeping service the worker needs.
type CleaningGenerator interface {
	GenerateForDate(ctx context.Context, date time.Time) (int, error)
}

// NewCleaningGenerateHandler binds the housekeeping generator to its task type.
func NewCleaningGenerateHandler(generator CleaningGenerator, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload CleaningGeneratePayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		date := time.Now().UTC()
		if payload.Date != "" {
			parsed, err := time.Parse("2006-01-02", payload.Date)
			if err != nil {
				return asynq.SkipRetry
			}
			date = parsed
		}
		date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
		created, err := generator.GenerateForDate(ctx, date)
		if err != nil {
			return err
		}
		logger.Info("cleaning board generated", slog.Time("date", date), slog.Int("created", created))
		return nil
	}
}

// ReportWarmer is the slice of the reporting service the worker needs.
type ReportWarmer interface {
	Warmup(ctx context.Context) error
}

// NewReportsWarmupTask constructs an Asynq task.
func NewReportsWarmupTask() *asynq.Task {
	return asynq.NewTask(TaskTypeReportsWarmup, nil)
}

// NewReportsWarmupHandler binds the report warmer to its task type.
func NewReportsWarmupHandler(warmer ReportWarmer, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		if err := warmer.Warmup(ctx); err != nil {
			return err
		}
		logger.Info("report cache warmed")
		return nil
	}
}
