// Package mailer builds and delivers outbound account email.
package mailer

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const TagEmailVerification = "email-verification"

// Message is a plain-text email. It is also the payload of queued email
// tasks, hence the JSON tags.
type Message struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	TextBody string `json:"text_body"`
	Tag      string `json:"tag,omitempty"`
}

// Sender delivers a message or hands it to something that will.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// VerificationLink points the recipient at the frontend's verify page.
func VerificationLink(frontendURL, token string) string {
	return strings.TrimRight(frontendURL, "/") + "/auth/verify-email?token=" + url.QueryEscape(token)
}

// VerificationMessage builds the account verification email.
func VerificationMessage(frontendURL, to, token string, ttl time.Duration) Message {
	link := VerificationLink(frontendURL, token)
	return Message{
		To:      to,
		Subject: "Verify your account",
		TextBody: fmt.Sprintf(
			"Please verify your email by clicking the link below:\n\n%s\n\nThis link will expire in %d minutes.",
			link, int(ttl.Minutes()),
		),
		Tag: TagEmailVerification,
	}
}
