package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/karbadigital/leads-api/pkg/logging"
)

// ErrNotConfigured is returned by Deliver under FailOnMisconfig when the
// email channel is missing required settings.
var ErrNotConfigured = errors.New("notify: email channel not configured")

// MisconfigPolicy selects what Deliver does when the channel is incomplete.
type MisconfigPolicy int

const (
	// SkipOnMisconfig acknowledges the lead without sending. The result
	// reports Attempted=false so the caller never claims delivery.
	SkipOnMisconfig MisconfigPolicy = iota
	// FailOnMisconfig surfaces the missing configuration as a server error.
	FailOnMisconfig
)

// ParseMisconfigPolicy maps the config string to a policy, defaulting to skip.
func ParseMisconfigPolicy(s string) MisconfigPolicy {
	if strings.EqualFold(strings.TrimSpace(s), "fail") {
		return FailOnMisconfig
	}
	return SkipOnMisconfig
}

// Lead carries the accepted submission fields into the notification. All
// values are untrusted user input and are escaped before HTML rendering.
type Lead struct {
	Name    string
	Email   string
	Phone   string
	Service string
	Message string
}

// Result describes one delivery attempt for response shaping and logs.
type Result struct {
	Attempted     bool
	Delivered     bool
	FailureDetail string
}

// LeadMailerConfig holds the operator-facing channel settings.
type LeadMailerConfig struct {
	To     string
	ToName string
	Policy MisconfigPolicy
}

// LeadMailer formats accepted leads and delivers them over an EmailSender.
type LeadMailer struct {
	sender EmailSender
	cfg    LeadMailerConfig
	logger *logging.Logger
}

// NewLeadMailer creates a lead mailer. A nil sender is allowed and means the
// channel is not configured; the policy decides how Deliver reacts.
func NewLeadMailer(sender EmailSender, cfg LeadMailerConfig, logger *logging.Logger) *LeadMailer {
	if logger == nil {
		logger = logging.Default()
	}
	return &LeadMailer{sender: sender, cfg: cfg, logger: logger}
}

// Configured reports whether the channel has everything it needs to send.
func (m *LeadMailer) Configured() bool {
	return m.sender != nil && strings.TrimSpace(m.cfg.To) != ""
}

// Deliver sends the lead notification. Under SkipOnMisconfig an unconfigured
// channel yields Attempted=false and no error; under FailOnMisconfig it
// yields ErrNotConfigured. A transport failure always returns an error with
// the result carrying diagnostic detail for internal logs only.
func (m *LeadMailer) Deliver(ctx context.Context, lead Lead) (Result, error) {
	if !m.Configured() {
		if m.cfg.Policy == FailOnMisconfig {
			m.logger.Error("lead notification channel not configured")
			return Result{}, ErrNotConfigured
		}
		m.logger.Warn("lead notification skipped, channel not configured", "lead_name", lead.Name)
		return Result{Attempted: false}, nil
	}

	msg := EmailMessage{
		To:      m.cfg.To,
		ToName:  m.cfg.ToName,
		ReplyTo: lead.Email,
		Subject: leadSubject(lead),
		Body:    leadTextBody(lead),
		HTML:    leadHTMLBody(lead),
	}

	if err := m.sender.Send(ctx, msg); err != nil {
		m.logger.Error("lead notification failed", "error", err, "lead_name", lead.Name)
		return Result{Attempted: true, FailureDetail: err.Error()}, fmt.Errorf("notify: deliver lead: %w", err)
	}

	m.logger.Info("lead notification sent", "to", m.cfg.To, "lead_name", lead.Name, "service", lead.Service)
	return Result{Attempted: true, Delivered: true}, nil
}

func leadSubject(lead Lead) string {
	return fmt.Sprintf("New Lead: %s (%s)", lead.Name, lead.Service)
}

func leadTextBody(lead Lead) string {
	return fmt.Sprintf(`New consultation lead

Name: %s
Email: %s
Phone: %s
Service: %s
Message:
%s
`, lead.Name, lead.Email, orDash(lead.Phone), lead.Service, orDash(lead.Message))
}

func leadHTMLBody(lead Lead) string {
	// white-space:pre-wrap keeps the message's own line breaks visible.
	return fmt.Sprintf(`<h2>New Consultation Lead</h2>
<p><strong>Name:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Phone:</strong> %s</p>
<p><strong>Service:</strong> %s</p>
<p><strong>Message:</strong></p>
<p style="white-space:pre-wrap;">%s</p>`,
		html.EscapeString(lead.Name),
		html.EscapeString(lead.Email),
		html.EscapeString(orDash(lead.Phone)),
		html.EscapeString(lead.Service),
		html.EscapeString(orDash(lead.Message)))
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
