package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const defaultAPIURL = "https://api.resend.com/emails"

// Client is a minimal Resend API client.
type Client struct {
	apiKey     string
	fromEmail  string
	apiURL     string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func WithAPIURL(url string) Option {
	return func(cl *Client) {
		cl.apiURL = url
	}
}

func NewClient(apiKey, fromEmail string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		fromEmail:  fromEmail,
		apiURL:     defaultAPIURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured returns true if the API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type resendEmail struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text"`
}

// SendTicketAck sends the acknowledgement email for a new support ticket.
func (c *Client) SendTicketAck(ctx context.Context, toEmail, name string, ticketNumber int64) error {
	subject := fmt.Sprintf("FamilyTask support — ticket #%d received", ticketNumber)
	text := fmt.Sprintf(
		"Hi %s,\n\nWe received your support request and assigned it ticket #%d. "+
			"We'll get back to you as soon as we can.\n\n— FamilyTask Support",
		name, ticketNumber,
	)
	html := fmt.Sprintf(
		`<p>Hi %s,</p><p>We received your support request and assigned it ticket <strong>#%d</strong>. We'll get back to you as soon as we can.</p><p>— FamilyTask Support</p>`,
		name, ticketNumber,
	)

	return c.send(ctx, toEmail, subject, html, text)
}

// SendSupportNotice forwards a ticket to the support inbox.
func (c *Client) SendSupportNotice(ctx context.Context, inbox string, ticketNumber int64, name, fromEmail, category, message string) error {
	subject := fmt.Sprintf("[FamilyTask] Ticket #%d (%s) from %s", ticketNumber, category, name)
	text := fmt.Sprintf("From: %s <%s>\nCategory: %s\n\n%s", name, fromEmail, category, message)
	html := fmt.Sprintf(
		`<p><strong>From:</strong> %s &lt;%s&gt;<br><strong>Category:</strong> %s</p><p>%s</p>`,
		name, fromEmail, category, message,
	)

	return c.send(ctx, inbox, subject, html, text)
}

func (c *Client) send(ctx context.Context, toEmail, subject, html, text string) error {
	if !c.Configured() {
		return fmt.Errorf("email client not configured: missing API key")
	}

	payload := resendEmail{
		From:    c.fromEmail,
		To:      []string{toEmail},
		Subject: subject,
		HTML:    html,
		Text:    text,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("resend API error: status %d", resp.StatusCode)
	}

	return nil
}
