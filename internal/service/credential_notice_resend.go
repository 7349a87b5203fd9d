package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/resend/resend-go/v2"
)

// ResendCredentialNotifier sends the credential notice through the Resend
// API. Construct with NewResendCredentialNotifier; an empty API key yields
// an unconfigured notifier that refuses to send.
type ResendCredentialNotifier struct {
	client     *resend.Client
	from       string
	portalsURL string
}

func NewResendCredentialNotifier(apiKey, from, portalsURL string) *ResendCredentialNotifier {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(from) == "" {
		return &ResendCredentialNotifier{}
	}
	return &ResendCredentialNotifier{
		client:     resend.NewClient(apiKey),
		from:       from,
		portalsURL: strings.TrimRight(portalsURL, "/"),
	}
}

func (n *ResendCredentialNotifier) SendCredentialNotice(_ context.Context, email, externalID, tempPassword string) error {
	if n.client == nil {
		return errors.New("credential notifier not configured")
	}
	html := fmt.Sprintf(
		"<p>Your school portal account is ready.</p><p>Login ID: <b>%s</b><br>Temporary password: <b>%s</b></p><p>You will be asked to choose a new password on first sign-in.</p>",
		externalID, tempPassword,
	)
	text := fmt.Sprintf(
		"Your school portal account is ready.\nLogin ID: %s\nTemporary password: %s\nYou will be asked to choose a new password on first sign-in.",
		externalID, tempPassword,
	)
	if n.portalsURL != "" {
		html += fmt.Sprintf("<p><a href=\"%s\">Open the portal</a></p>", n.portalsURL)
		text += fmt.Sprintf("\nPortal: %s", n.portalsURL)
	}
	_, err := n.client.Emails.Send(&resend.SendEmailRequest{
		From:    n.from,
		To:      []string{email},
		Subject: "Your school portal login",
		Html:    html,
		Text:    text,
	})
	return err
}
