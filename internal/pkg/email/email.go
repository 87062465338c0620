package email

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"text/template"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/config"
	"github.com/wneessen/go-mail"
)

//go:embed templates/*.txt
var templateFS embed.FS

const maxRetries = 3

// Mailer sends notification emails. Failures are reported to the caller,
// which decides whether they matter.
type Mailer interface {
	SendTaskAssigned(ctx context.Context, to string, data TaskAssignedData) error
	SendLeaveDecision(ctx context.Context, to string, data LeaveDecisionData) error
}

type TaskAssignedData struct {
	AssigneeName   string
	AssignedByName string
	Title          string
	Priority       string
	DueDate        string
	Link           string
}

type LeaveDecisionData struct {
	RequesterName  string
	DecidedByName  string
	LeaveType      string
	StartDate      string
	EndDate        string
	DaysCount      int
	Status         string
	Deducted       bool
	SalaryDeducted string
	Reason         string
}

type smtpMailer struct {
	cfg       config.SMTPConfig
	client    *mail.Client
	templates *template.Template
}

// NewMailer returns an SMTP mailer, or a mailer that only logs when SMTP is not configured.
func NewMailer(cfg config.SMTPConfig) (Mailer, error) {
	if !cfg.Enabled() {
		return noopMailer{}, nil
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(cfg.DialTimeout),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	return &smtpMailer{cfg: cfg, client: client, templates: tmpl}, nil
}

func parseTemplates() (*template.Template, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	return tmpl, nil
}

func (s *smtpMailer) SendTaskAssigned(ctx context.Context, to string, data TaskAssignedData) error {
	msg, err := newMessage(s.templates, s.cfg.From, to, "New task: "+data.Title, "task_assigned.txt", data)
	if err != nil {
		return err
	}
	return s.send(ctx, msg)
}

func (s *smtpMailer) SendLeaveDecision(ctx context.Context, to string, data LeaveDecisionData) error {
	msg, err := newMessage(s.templates, s.cfg.From, to, "Leave request "+data.Status, "leave_decision.txt", data)
	if err != nil {
		return err
	}
	return s.send(ctx, msg)
}

func newMessage(tmpl *template.Template, from, to, subject, name string, data interface{}) (*mail.Msg, error) {
	t := tmpl.Lookup(name)
	if t == nil {
		return nil, fmt.Errorf("email template %q not found", name)
	}

	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	msg.Subject(subject)
	if err := msg.SetBodyTextTemplate(t, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return msg, nil
}

func (s *smtpMailer) send(ctx context.Context, msg *mail.Msg) error {
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := s.client.DialAndSendWithContext(ctx, msg)
		if err == nil {
			slog.Info("Email sent successfully", "to", msg.GetToString(), "attempt", attempt)
			return nil
		}
		lastErr = err
		slog.Warn("Email send failed", "to", msg.GetToString(), "attempt", attempt, "error", err)

		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}
	}
	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}

type noopMailer struct{}

func (noopMailer) SendTaskAssigned(_ context.Context, to string, data TaskAssignedData) error {
	slog.Debug("SMTP not configured, skipping email", "to", to, "template", "task_assigned")
	return nil
}

func (noopMailer) SendLeaveDecision(_ context.Context, to string, data LeaveDecisionData) error {
	slog.Debug("SMTP not configured, skipping email", "to", to, "template", "leave_decision")
	return nil
}
