package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bearister/auth-service/internal/mailer"
	"github.com/bearister/auth-service/pkg/logger"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests (required by tasks)
	_, err := logger.Init("info", "json")
	if err != nil {
		panic("failed to init logger: " + err.Error())
	}
	os.Exit(m.Run())
}

type mockEnqueuer struct {
	mock.Mock
}

func (m *mockEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task)
	if v := args.Get(0); v != nil {
		return v.(*asynq.TaskInfo), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, msg mailer.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

var sample = mailer.Message{To: "a@x.com", Subject: "Verify your account", TextBody: "link", Tag: mailer.TagEmailVerification}

func TestEmailEnqueuer_EnqueuesPayload(t *testing.T) {
	client := new(mockEnqueuer)
	client.On("EnqueueContext", mock.Anything, mock.MatchedBy(func(task *asynq.Task) bool {
		var got mailer.Message
		return task.Type() == TypeEmailSend &&
			json.Unmarshal(task.Payload(), &got) == nil &&
			got == sample
	})).Return(&asynq.TaskInfo{ID: "t1", Queue: "default"}, nil)

	err := NewEmailEnqueuer(client).Send(context.Background(), sample)
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestEmailEnqueuer_PropagatesFailure(t *testing.T) {
	client := new(mockEnqueuer)
	client.On("EnqueueContext", mock.Anything, mock.Anything).Return(nil, errors.New("redis down"))

	err := NewEmailEnqueuer(client).Send(context.Background(), sample)
	assert.Error(t, err)
}

func TestHandleEmailSend_Delivers(t *testing.T) {
	sender := new(mockSender)
	sender.On("Send", mock.Anything, sample).Return(nil)

	task, err := NewEmailSendTask(sample)
	require.NoError(t, err)

	require.NoError(t, NewEmailTaskHandler(sender).HandleEmailSend(context.Background(), task))
	sender.AssertExpectations(t)
}

func TestHandleEmailSend_RetriesDeliveryFailure(t *testing.T) {
	sender := new(mockSender)
	sender.On("Send", mock.Anything, sample).Return(errors.New("smtp 421"))

	task, err := NewEmailSendTask(sample)
	require.NoError(t, err)

	err = NewEmailTaskHandler(sender).HandleEmailSend(context.Background(), task)
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandleEmailSend_SkipsRetryOnBadPayload(t *testing.T) {
	sender := new(mockSender)
	h := NewEmailTaskHandler(sender)

	err := h.HandleEmailSend(context.Background(), asynq.NewTask(TypeEmailSend, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = h.HandleEmailSend(context.Background(), asynq.NewTask(TypeEmailSend, []byte(`{"subject":"x"}`)))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}
