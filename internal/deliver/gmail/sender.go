package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"

	"github.com/jhillyerd/enmime"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"memberdoc/internal"
	"memberdoc/internal/config"
)

// Sender delivers documents through the Gmail API using a refresh token.
type Sender struct {
	service *gmail.Service
	from    string
}

func NewSender(cfg config.Config) (*Sender, error) {
	if err := cfg.Require("GMAIL_CLIENT_ID", cfg.GmailClientID); err != nil {
		return nil, err
	}
	if err := cfg.Require("GMAIL_CLIENT_SECRET", cfg.GmailClientSecret); err != nil {
		return nil, err
	}
	if err := cfg.Require("GMAIL_REFRESH_TOKEN", cfg.GmailRefreshToken); err != nil {
		return nil, err
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.GmailClientID,
		ClientSecret: cfg.GmailClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  cfg.GmailRedirectURI,
		Scopes:       []string{gmail.GmailSendScope},
	}

	tokenSource := oauthCfg.TokenSource(context.Background(), &oauth2.Token{RefreshToken: cfg.GmailRefreshToken})
	svc, err := gmail.NewService(context.Background(), option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, err
	}

	return &Sender{service: svc, from: cfg.GmailSender}, nil
}

func (s *Sender) Send(req internal.DeliveryRequest) error {
	if req.To == "" {
		return fmt.Errorf("delivery request has no recipient")
	}

	part, err := enmime.Builder().
		From("", s.from).
		To("", req.To).
		Subject(req.Subject).
		Text([]byte(req.Body)).
		AddAttachment(req.PDF, "application/pdf", req.Filename).
		Build()
	if err != nil {
		return fmt.Errorf("build mime message: %w", err)
	}

	var buf bytes.Buffer
	if err := part.Encode(&buf); err != nil {
		return fmt.Errorf("encode mime message: %w", err)
	}

	msg := &gmail.Message{Raw: base64.RawURLEncoding.EncodeToString(buf.Bytes())}
	if _, err := s.service.Users.Messages.Send("me", msg).Do(); err != nil {
		return fmt.Errorf("gmail send to %s: %w", req.To, err)
	}
	return nil
}
