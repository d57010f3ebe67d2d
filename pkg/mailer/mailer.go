// Package mailer renders and sends the portal's notification emails.
package mailer

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"go.uber.org/zap"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/config"
)

// Kind selects the template.
type Kind string

const (
	KindUploadConfirmation Kind = "upload_confirmation"
	KindCorrection         Kind = "correction"
	KindReminderUpcoming   Kind = "reminder_upcoming"
	KindReminderOverdue    Kind = "reminder_overdue"
	KindReminderManual     Kind = "reminder_manual"
)

// ErrNoRecipient the message has no address.
var ErrNoRecipient = errors.New("mailer: empty recipient")

// Data fills the templates. Unused fields are ignored by each kind.
type Data struct {
	SchoolName    string
	ProgramName   string
	PeriodLabel   string
	Deadline      string // already formatted, may be empty
	Notes         string
	AdminName     string
	CustomMessage string
	PortalURL     string
}

// Message one email to one director.
type Message struct {
	To   string
	Kind Kind
	Data Data
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

//go:embed templates/*.gohtml
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"lines": func(s string) []string { return strings.Split(s, "\n") },
}).ParseFS(templateFS, "templates/*.gohtml"))

// Render returns subject and HTML body.
func Render(msg Message) (string, string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, string(msg.Kind)+".gohtml", msg.Data); err != nil {
		return "", "", fmt.Errorf("render %s: %w", msg.Kind, err)
	}
	return subject(msg), buf.String(), nil
}

func subject(msg Message) string {
	d := msg.Data
	switch msg.Kind {
	case KindUploadConfirmation:
		return fmt.Sprintf("Acuse de recibo: %s - %s", d.ProgramName, d.PeriodLabel)
	case KindCorrection:
		return fmt.Sprintf("Corrección requerida: %s - %s", d.ProgramName, d.PeriodLabel)
	case KindReminderUpcoming:
		return fmt.Sprintf("Recordatorio amistoso: Próxima entrega de %s", d.ProgramName)
	case KindReminderOverdue:
		return fmt.Sprintf("Aviso importante: Fecha vencida para %s", d.ProgramName)
	default:
		return fmt.Sprintf("Recordatorio: %s - %s", d.ProgramName, d.PeriodLabel)
	}
}

// New builds the mailer selected by cfg.Provider.
func New(cfg *config.MailConfig, logger *zap.Logger) (Mailer, error) {
	switch cfg.Provider {
	case "sendgrid":
		return NewSendGridMailer(cfg, logger), nil
	case "log", "":
		return NewLogMailer(logger), nil
	default:
		return nil, fmt.Errorf("mailer: unknown provider %q", cfg.Provider)
	}
}
