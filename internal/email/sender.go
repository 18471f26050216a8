// Package email renders and delivers the portal's transactional emails.
package email

import "context"

// Sender delivers the portal's transactional emails. The notification
// dispatcher is the only caller; domain code records intents in the outbox
// instead of sending directly.
type Sender interface {
	// SendCredentialsEmail delivers the one-time login credentials to the
	// company admin created by a conversion.
	SendCredentialsEmail(ctx context.Context, toEmail, companyName, username, password string) error
	// SendPressupostEmail delivers a precontract quote.
	SendPressupostEmail(ctx context.Context, toEmail, companyName, planName string, extraNames []string, totalCents int64, notes string) error
	// SendConversioEmail notifies the CRM actor that a lead was converted.
	SendConversioEmail(ctx context.Context, toEmail, companyName string, usersCreated int) error
}

// NoopSender is used when email delivery is disabled (local development,
// tests). Sends succeed without doing anything.
type NoopSender struct{}

func (NoopSender) SendCredentialsEmail(context.Context, string, string, string, string) error {
	return nil
}

func (NoopSender) SendPressupostEmail(context.Context, string, string, string, []string, int64, string) error {
	return nil
}

func (NoopSender) SendConversioEmail(context.Context, string, string, int) error {
	return nil
}
