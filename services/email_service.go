// File: /services/email_service.go
package services

import (
	"fmt"
	"gopkg.in/gomail.v2"
	"mutiroes-api/config"
	"mutiroes-api/models"
)

// EmailService delivers event notification emails over SMTP. Delivery is
// fire-and-forget from the callers' point of view: admission decisions never
// wait on it and a failure only gets logged.
type EmailService struct {
	config *config.Config
	dialer *gomail.Dialer
}

func NewEmailService(cfg *config.Config) *EmailService {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)

	return &EmailService{
		config: cfg,
		dialer: dialer,
	}
}

// SendRegistrationConfirmation notifies a user their spot is confirmed.
func (es *EmailService) SendRegistrationConfirmation(user *models.User, event *models.Event) error {
	subject := fmt.Sprintf("Inscrição confirmada - %s", event.Title)
	intro := "Sua inscrição foi confirmada! Nos vemos lá."
	return es.sendEventEmail(user, event, subject, intro)
}

// SendPendingApprovalNotice notifies a user their request awaits the
// organizer's approval.
func (es *EmailService) SendPendingApprovalNotice(user *models.User, event *models.Event) error {
	subject := fmt.Sprintf("Inscrição recebida - %s", event.Title)
	intro := "Sua inscrição foi recebida e aguarda aprovação do organizador."
	return es.sendEventEmail(user, event, subject, intro)
}

// SendEventReminder nudges a confirmed participant shortly before the event.
func (es *EmailService) SendEventReminder(user *models.User, event *models.Event) error {
	subject := fmt.Sprintf("Lembrete: %s acontece em breve!", event.Title)
	intro := "Seu mutirão está chegando. Não esqueça de fazer check-in ao chegar!"
	return es.sendEventEmail(user, event, subject, intro)
}

func (es *EmailService) sendEventEmail(user *models.User, event *models.Event, subject, intro string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", es.config.FromName, es.config.FromEmail))
	m.SetHeader("To", user.Email)
	m.SetHeader("Subject", subject)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { text-align: center; background: #2e7d32; color: white; padding: 20px; border-radius: 10px 10px 0 0; }
        .content { background: #f8f9fa; padding: 30px; border-radius: 0 0 10px 10px; }
        .details { background: #e9ecef; padding: 20px; border-radius: 8px; margin: 20px 0; }
        .footer { text-align: center; margin-top: 20px; color: #666; font-size: 14px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>🌱 Mutirões</h1>
        </div>
        <div class="content">
            <h2>Olá %s!</h2>
            <p>%s</p>
            <div class="details">
                <p><strong>%s</strong></p>
                <p>Data: %s</p>
                <p>Local: %s, %s - %s</p>
            </div>
            <p><strong>Equipe Mutirões</strong></p>
        </div>
        <div class="footer">
            <p>Este é um email automático, por favor não responda.</p>
        </div>
    </div>
</body>
</html>`,
		user.Name, intro, event.Title,
		event.StartDate.Format("02/01/2006 15:04"),
		event.Address, event.City, event.State)

	textBody := fmt.Sprintf(`Olá %s!

%s

%s
Data: %s
Local: %s, %s - %s

Equipe Mutirões

Este é um email automático, por favor não responda.
`,
		user.Name, intro, event.Title,
		event.StartDate.Format("02/01/2006 15:04"),
		event.Address, event.City, event.State)

	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)

	if err := es.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	fmt.Printf("📧 Email sent to %s for event %s\n", user.Email, event.ID)
	return nil
}
