package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"time"

	"github.com/phillip/pet-adoption-go/config"
)

// email request payload for ZeptoMail API
type emailRequest struct {
	From     emailAddress  `json:"from"`
	To       []toRecipient `json:"to"`
	Subject  string        `json:"subject"`
	HtmlBody string        `json:"htmlbody"`
}

type emailAddress struct {
	Address string `json:"address"`
}

type toRecipient struct {
	Email emailWithName `json:"email_address"`
}

type emailWithName struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

// Mailer sends HTML mail through the ZeptoMail HTTP API.
type Mailer struct {
	cfg    config.MailConfig
	client *http.Client
}

func NewMailer(cfg config.MailConfig) *Mailer {
	return &Mailer{cfg: cfg, client: &http.Client{Timeout: 15 * time.Second}}
}

// Send delivers one message to a single recipient.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	if !m.cfg.Enabled() {
		return fmt.Errorf("missing required email config")
	}

	payload := emailRequest{
		From: emailAddress{Address: m.cfg.From},
		To: []toRecipient{
			{Email: emailWithName{Address: to, Name: m.cfg.ToName}},
		},
		Subject:  subject,
		HtmlBody: body,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.APIURL, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("create email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", m.cfg.APIKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("zeptomail API error: %s", resp.Status)
	}
	return nil
}

// AdoptionDecisionEmail renders the notice sent to a requester once the pet
// owner has decided.
func AdoptionDecisionEmail(petName string, accepted bool) (subject, body string) {
	name := html.EscapeString(petName)
	if name == "" {
		name = "the pet"
	}
	if accepted {
		return "Your adoption request was accepted",
			fmt.Sprintf("<p>Good news! Your request to adopt <b>%s</b> was accepted. The owner will contact you soon.</p>", name)
	}
	return "Update on your adoption request",
		fmt.Sprintf("<p>Your request to adopt <b>%s</b> was not accepted this time.</p>", name)
}
