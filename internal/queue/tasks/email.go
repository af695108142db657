package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/bearister/auth-service/internal/mailer"
	appErr "github.com/bearister/auth-service/pkg/errors"
	"github.com/bearister/auth-service/pkg/logger"
)

const TypeEmailSend = "email:send"

// NewEmailSendTask wraps msg in a retryable delivery task.
func NewEmailSendTask(msg mailer.Message) (*asynq.Task, error) {
	pb, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal email payload: %w", err)
	}
	return asynq.NewTask(TypeEmailSend, pb, asynq.MaxRetry(5), asynq.Timeout(30*time.Second)), nil
}

// Enqueuer is the part of *asynq.Client used here.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// EmailEnqueuer is a mailer.Sender that defers delivery to the worker.
type EmailEnqueuer struct {
	client Enqueuer
}

func NewEmailEnqueuer(client Enqueuer) *EmailEnqueuer {
	return &EmailEnqueuer{client: client}
}

var _ mailer.Sender = (*EmailEnqueuer)(nil)

func (e *EmailEnqueuer) Send(ctx context.Context, msg mailer.Message) error {
	task, err := NewEmailSendTask(msg)
	if err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "build email task failed")
	}
	info, err := e.client.EnqueueContext(ctx, task)
	if err != nil {
		logger.L().Error("enqueue email task failed", zap.Error(err), zap.String("to", msg.To), zap.String("tag", msg.Tag))
		return appErr.Wrap(err, appErr.CodeInternal, "enqueue email task failed")
	}
	logger.L().Debug("email task enqueued", zap.String("task_id", info.ID), zap.String("queue", info.Queue))
	return nil
}

// EmailTaskHandler delivers queued messages with the wrapped sender.
type EmailTaskHandler struct {
	sender mailer.Sender
}

func NewEmailTaskHandler(sender mailer.Sender) *EmailTaskHandler {
	return &EmailTaskHandler{sender: sender}
}

func (h *EmailTaskHandler) HandleEmailSend(ctx context.Context, t *asynq.Task) error {
	var msg mailer.Message
	if err := json.Unmarshal(t.Payload(), &msg); err != nil {
		logger.L().Error("invalid email task payload", zap.Error(err))
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if msg.To == "" {
		logger.L().Error("email task without recipient", zap.String("tag", msg.Tag))
		return fmt.Errorf("missing recipient: %w", asynq.SkipRetry)
	}

	logger.L().Info("handling email task", zap.String("to", msg.To), zap.String("tag", msg.Tag))

	if err := h.sender.Send(ctx, msg); err != nil {
		logger.L().Warn("email delivery failed, will retry", zap.Error(err), zap.String("to", msg.To))
		return err
	}
	return nil
}
