// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/creatorbridge/negotiation-backend/internal/config"
	"github.com/creatorbridge/negotiation-backend/internal/models"
)

// NotificationService records in-app notifications and sends the matching
// emails. Notification failures are advisory: callers log them and move on,
// they never roll back a negotiation or contract transition.
type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

type EmailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(db *gorm.DB, config *config.Config) *NotificationService {
	return &NotificationService{
		db:     db,
		config: config,
	}
}

// SendAgreementNotification announces that a negotiation closed with a deal.
func (s *NotificationService) SendAgreementNotification(session *models.NegotiationSession) error {
	total := 0.0
	currency := session.Brief.Currency
	if session.AgreedTerms != nil {
		total = session.AgreedTerms.Total
		currency = session.AgreedTerms.Currency
	}

	s.record(session.UserID, "agreement_reached", "Agreement reached",
		fmt.Sprintf("%s and %s agreed at %.2f %s", session.Brief.Name, session.Influencer.Name, total, currency),
		models.JSONB{"session_id": session.ID.String()})

	tmpl := s.getEmailTemplate("agreement_reached")
	body, err := s.renderTemplate(tmpl.Body, map[string]interface{}{
		"BrandName":      session.Brief.Name,
		"InfluencerName": session.Influencer.Name,
		"Total":          fmt.Sprintf("%.2f %s", total, currency),
	})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}
	return s.sendEmail(defaultBrandEmail(session.Brief.Name), tmpl.Subject, body)
}

func (s *NotificationService) SendContractReadyNotification(contract *models.Contract) error {
	s.record(nil, "contract_ready", "Contract ready for signatures",
		fmt.Sprintf("Contract %q is ready to sign", contract.Title),
		models.JSONB{"contract_id": contract.ID.String()})

	tmpl := s.getEmailTemplate("contract_ready")
	body, err := s.renderTemplate(tmpl.Body, map[string]interface{}{
		"Title":          contract.Title,
		"BrandName":      contract.BrandName,
		"InfluencerName": contract.InfluencerName,
		"Total":          fmt.Sprintf("%.2f %s", contract.TotalAmount, contract.Currency),
	})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	if err := s.sendEmail(contract.BrandEmail, tmpl.Subject, body); err != nil {
		return err
	}
	return s.sendEmail(contract.InfluencerEmail, tmpl.Subject, body)
}

func (s *NotificationService) SendContractSignedNotification(contract *models.Contract, signature *models.Signature) error {
	s.record(nil, "contract_signed", "Contract signed",
		fmt.Sprintf("%s signed contract %q as %s", signature.Name, contract.Title, signature.Role),
		models.JSONB{"contract_id": contract.ID.String(), "role": string(signature.Role)})

	// Tell the party that has not signed yet.
	recipient := contract.BrandEmail
	if signature.Role == models.SignerRoleBrand {
		recipient = contract.InfluencerEmail
	}

	tmpl := s.getEmailTemplate("contract_signed")
	body, err := s.renderTemplate(tmpl.Body, map[string]interface{}{
		"Title":  contract.Title,
		"Signer": signature.Name,
		"Role":   string(signature.Role),
	})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}
	return s.sendEmail(recipient, tmpl.Subject, body)
}

func (s *NotificationService) SendContractExecutedNotification(contract *models.Contract) error {
	s.record(nil, "contract_executed", "Contract fully executed",
		fmt.Sprintf("Contract %q is fully executed", contract.Title),
		models.JSONB{"contract_id": contract.ID.String()})

	tmpl := s.getEmailTemplate("contract_executed")
	body, err := s.renderTemplate(tmpl.Body, map[string]interface{}{
		"Title":          contract.Title,
		"BrandName":      contract.BrandName,
		"InfluencerName": contract.InfluencerName,
		"Total":          fmt.Sprintf("%.2f %s", contract.TotalAmount, contract.Currency),
	})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	if err := s.sendEmail(contract.BrandEmail, tmpl.Subject, body); err != nil {
		return err
	}
	return s.sendEmail(contract.InfluencerEmail, tmpl.Subject, body)
}

func (s *NotificationService) SendWelcomeEmail(user *models.User) error {
	tmpl := s.getEmailTemplate("welcome")
	body, err := s.renderTemplate(tmpl.Body, map[string]interface{}{
		"Username":     user.Username,
		"PlatformName": s.config.Email.FromName,
		"BaseURL":      s.config.Frontend.BaseURL,
	})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}
	return s.sendEmail(user.Email, tmpl.Subject, body)
}

// record writes the in-app notification row. Best effort: without a
// database (tests) it is a no-op.
func (s *NotificationService) record(userID *uuid.UUID, notifType, title, message string, data models.JSONB) {
	if s.db == nil {
		return
	}
	notification := models.Notification{
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
		Data:    data,
	}
	s.db.Create(&notification)
}

func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SMTPHost == "" || s.config.Email.SMTPUsername == "" {
		// Email not configured, nothing to send
		return nil
	}

	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s", to, subject, body))

	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	templates := map[string]EmailTemplate{
		"agreement_reached": {
			Subject: "Agreement reached",
			Body:    `<h2>Deal agreed</h2><p>{{.BrandName}} and {{.InfluencerName}} have agreed on a collaboration at <strong>{{.Total}}</strong>.</p><p>The contract is being prepared and will be ready for signatures shortly.</p>`,
		},
		"contract_ready": {
			Subject: "Contract ready for signatures",
			Body:    `<h2>{{.Title}}</h2><p>The contract between {{.BrandName}} and {{.InfluencerName}} for <strong>{{.Total}}</strong> is ready. Both parties must sign before the campaign can start.</p>`,
		},
		"contract_signed": {
			Subject: "Contract signed",
			Body:    `<h2>{{.Title}}</h2><p>{{.Signer}} has signed as {{.Role}}. Your signature is the remaining step to execute the contract.</p>`,
		},
		"contract_executed": {
			Subject: "Contract fully executed",
			Body:    `<h2>{{.Title}}</h2><p>Both parties have signed. The agreement between {{.BrandName}} and {{.InfluencerName}} for <strong>{{.Total}}</strong> is now in force and the advance payment has been initiated.</p>`,
		},
		"welcome": {
			Subject: "Welcome to CreatorBridge",
			Body:    `<h2>Welcome, {{.Username}}!</h2><p>Your {{.PlatformName}} account is ready. Start a negotiation at <a href="{{.BaseURL}}">{{.BaseURL}}</a>.</p>`,
		},
	}

	if tmpl, exists := templates[templateType]; exists {
		return tmpl
	}
	return EmailTemplate{Subject: "Notification", Body: "<p>{{.}}</p>"}
}
