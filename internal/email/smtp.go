package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"

	"crm_portal_backend/platform/config"
)

// SMTPSender implements Sender over a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates an SMTPSender from the email configuration.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendCredentialsEmail(ctx context.Context, toEmail, companyName, username, password string) error {
	subject := fmt.Sprintf(subjectCredentialsFmt, companyName)
	content, err := renderEmailTemplate("credentials.html", credentialsEmailData{
		baseEmailData: baseEmailData{
			Title:   "Les teves credencials d'accés",
			Heading: "Benvingut al portal",
		},
		CompanyName: companyName,
		Username:    username,
		Password:    password,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendPressupostEmail(ctx context.Context, toEmail, companyName, planName string, extraNames []string, totalCents int64, notes string) error {
	subject := fmt.Sprintf(subjectPressupostFmt, companyName)
	content, err := renderEmailTemplate("pressupost.html", pressupostEmailData{
		baseEmailData: baseEmailData{
			Title:   "El teu pressupost",
			Heading: "Pressupost",
		},
		CompanyName:    companyName,
		PlanName:       planName,
		ExtraNames:     extraNames,
		TotalFormatted: formatCurrencyEUR(totalCents),
		Notes:          notes,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendConversioEmail(ctx context.Context, toEmail, companyName string, usersCreated int) error {
	subject := fmt.Sprintf(subjectConversioFmt, companyName)
	content, err := renderEmailTemplate("conversio.html", conversioEmailData{
		baseEmailData: baseEmailData{
			Title:   "Lead convertit",
			Heading: "Conversió completada",
		},
		CompanyName:  companyName,
		UsersCreated: usersCreated,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

// Compile-time checks.
var (
	_ Sender = (*SMTPSender)(nil)
	_ Sender = NoopSender{}
)
