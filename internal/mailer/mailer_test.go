package mailer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestVerificationLink(t *testing.T) {
	assert.Equal(t,
		"http://localhost:3000/auth/verify-email?token=abc.def.ghi",
		VerificationLink("http://localhost:3000/", "abc.def.ghi"),
	)
}

func TestVerificationMessage(t *testing.T) {
	msg := VerificationMessage("https://app.example", "a@x.com", "tok", time.Hour)

	assert.Equal(t, "a@x.com", msg.To)
	assert.Equal(t, "Verify your account", msg.Subject)
	assert.Equal(t, TagEmailVerification, msg.Tag)
	assert.Contains(t, msg.TextBody, "https://app.example/auth/verify-email?token=tok")
	assert.Contains(t, msg.TextBody, "expire in 60 minutes")
}

func TestSMTPSender_BuildsAndSends(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "smtp.example", Port: 587, From: "support@bearister.ai"})

	var got *mail.Msg
	s.send = func(_ context.Context, m *mail.Msg) error {
		got = m
		return nil
	}

	err := s.Send(context.Background(), Message{To: "a@x.com", Subject: "Hi", TextBody: "body", Tag: "t"})
	require.NoError(t, err)
	require.NotNil(t, got)

	rcpts, err := got.GetRecipients()
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com"}, rcpts)
	assert.Equal(t, []string{"Hi"}, got.GetGenHeader(mail.HeaderSubject))
}

func TestSMTPSender_Errors(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "smtp.example", Port: 587, From: "support@bearister.ai"})
	s.send = func(context.Context, *mail.Msg) error { return errors.New("relay down") }

	err := s.Send(context.Background(), Message{To: "a@x.com"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "relay down"))

	err = s.Send(context.Background(), Message{To: "not an address"})
	assert.Error(t, err)
}

func TestLogSender(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := NewLogSender(zap.New(core))

	require.NoError(t, s.Send(context.Background(), Message{To: "a@x.com", Subject: "Verify your account"}))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "a@x.com", logs.All()[0].ContextMap()["to"])
}
