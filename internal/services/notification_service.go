// internal/services/notification_service.go
package services

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/omarqassem/shopfront-backend/internal/config"
	"github.com/omarqassem/shopfront-backend/internal/models"
)

// NotificationService sends the order-confirmation email. Failures are
// reported to the caller, which treats them as non-fatal: an order is
// never reversed because an email bounced.
type NotificationService struct {
	config *config.Config
}

func NewNotificationService(config *config.Config) *NotificationService {
	return &NotificationService{config: config}
}

var orderConfirmationTemplate = template.Must(template.New("order_confirmation").Parse(`
<!DOCTYPE html>
<html>
<body>
	<h2>Thank you for your order, {{.CustomerName}}!</h2>
	<p>Your order #{{.OrderID}} has been confirmed and is being processed.</p>
	<h3>Order Details:</h3>
	<ul>
	{{range .Items}}
		<li>{{.ProductName}}{{if .VariantName}} ({{.VariantName}}){{end}} &mdash; {{.Quantity}} x ${{printf "%.2f" .Price}}</li>
	{{end}}
	</ul>
	<p><strong>Total: ${{printf "%.2f" .Total}}</strong></p>
	<p>Delivery to: {{.CustomerAddress}}</p>
	<p>We will reach you at {{.CustomerPhone}} if anything comes up.</p>
</body>
</html>`))

// SendOrderConfirmation renders and sends the confirmation for a
// freshly placed order.
func (s *NotificationService) SendOrderConfirmation(order *models.Order, items []models.OrderItem) error {
	data := map[string]interface{}{
		"CustomerName":    order.CustomerName,
		"CustomerAddress": order.CustomerAddress,
		"CustomerPhone":   order.CustomerPhone,
		"OrderID":         order.ID.String(),
		"Items":           items,
		"Total":           order.Total,
	}

	var buf bytes.Buffer
	if err := orderConfirmationTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render confirmation email: %w", err)
	}

	subject := fmt.Sprintf("Your %s Order Confirmation", s.config.Email.FromName)
	return s.sendEmail(order.CustomerEmail, subject, buf.String())
}

func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SMTPUsername == "" {
		return errors.New("email delivery is not configured")
	}

	// Setup authentication
	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	// Compose message
	msg := []byte(fmt.Sprintf("To: %s\r\nFrom: %s <%s>\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		to, s.config.Email.FromName, s.config.Email.FromEmail, subject, body))

	// Send email
	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
}
