package services

import (
	"context"
	"fmt"
	"sync"

	"lumino_server/lib"
	"lumino_server/structs"
	"lumino_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/resend/resend-go/v3"
)

var (
	client     *resend.Client
	clientOnce = sync.Once{}
)

// Mailer dispatches a payload to the transactional email provider and
// returns the provider message id.
type Mailer interface {
	Send(ctx context.Context, payload *structs.EmailPayload) (string, error)
}

type resendMailer struct {
	client *resend.Client
}

func (m *resendMailer) Send(ctx context.Context, payload *structs.EmailPayload) (string, error) {
	params := &resend.SendEmailRequest{
		From:    payload.From.First(),
		To:      payload.To.Strings(),
		Subject: payload.Subject,
		Html:    payload.Html,
		Text:    payload.Text,
	}

	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return "", err
	}
	return sent.Id, nil
}

type EmailService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	mailer Mailer
}

func NewEmailService(logger *gecho.Logger, cfg *structs.Config) *EmailService {
	return &EmailService{
		logger: logger,
		cfg:    cfg,
		mailer: &resendMailer{client: getEmailClient(cfg.Email.ApiKey)},
	}
}

// newEmailService wires an explicit mailer, used by tests.
func newEmailService(logger *gecho.Logger, cfg *structs.Config, mailer Mailer) *EmailService {
	return &EmailService{
		logger: logger,
		cfg:    cfg,
		mailer: mailer,
	}
}

func getEmailClient(apiKey string) *resend.Client {
	clientOnce.Do(func() {
		client = resend.NewClient(apiKey)
	})
	return client
}

// Send normalizes and validates the payload, then hands it to the provider.
// Validation failures never reach the provider. Only masked addresses appear
// in logs.
func (es *EmailService) Send(ctx context.Context, payload *structs.EmailPayload) (string, error) {
	payload.Normalize()

	if err := lib.ValidateEmailPayload(payload); err != nil {
		es.logger.Warn("Rejected email payload before dispatch", gecho.Field("error", err))
		return "", err
	}

	messageID, err := es.mailer.Send(ctx, payload)
	if err != nil {
		es.logger.Error("Failed to send email",
			gecho.Field("error", err),
			gecho.Field("to", maskAddresses(payload.To)),
		)
		return "", fmt.Errorf("%w: %v", lib.ErrProviderFailure, err)
	}

	es.logger.Info("Email dispatched",
		gecho.Field("message_id", messageID),
		gecho.Field("to", maskAddresses(payload.To)),
	)

	return messageID, nil
}

// BuildAssignmentEmail renders the magic-link notification for an assignment.
// The link carries the assignment token so the student lands authenticated.
func (es *EmailService) BuildAssignmentEmail(assignment *tables.Assignment) *structs.EmailPayload {
	playLink := fmt.Sprintf("%s/play?token=%s", es.cfg.Server.FrontendURL, assignment.LinkToken)

	name := assignment.StudentName
	if name == "" {
		name = "there"
	}

	due := ""
	if assignment.DueDate != nil {
		due = fmt.Sprintf("<p>Complete it before <strong>%s</strong>.</p>", assignment.DueDate.Format("Monday, January 2"))
	}

	emailBody := fmt.Sprintf(`
		<!DOCTYPE html>
		<html>
		<head>
			<meta charset="UTF-8">
			<style>
				body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
				.container { max-width: 600px; margin: 0 auto; padding: 20px; }
				.header { background-color: #5B6EE8; color: white; padding: 20px; text-align: center; }
				.content { padding: 20px; background-color: #f9f9f9; }
				.button { display: inline-block; padding: 15px 30px; background-color: #5B6EE8; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
				.footer { text-align: center; padding: 20px; color: #666; font-size: 12px; }
			</style>
		</head>
		<body>
			<div class="container">
				<div class="header">
					<h1>New assignment: %s</h1>
				</div>
				<div class="content">
					<p>Hi %s,</p>
					<p>Your teacher assigned you <strong>%s</strong>. Click the button below to start playing, no password needed.</p>
					<p style="text-align: center;">
						<a href="%s" class="button">Start Assignment</a>
					</p>
					%s
					<p>Link not working? Copy and paste the following URL into your browser:</p>
					<p style="word-break: break-all;">%s</p>
					<p>Questions? Reach us at %s</p>
				</div>
				<div class="footer">
					<p>Lumino Learning | Learning through play</p>
				</div>
			</div>
		</body>
		</html>
	`, assignment.GameTitle, name, assignment.GameTitle, playLink, due, playLink, es.cfg.Email.SupportEmail)

	return &structs.EmailPayload{
		To: structs.AddressList{{Email: assignment.StudentEmail, Name: assignment.StudentName}},
		From: structs.AddressList{{
			Email: es.cfg.Email.From,
			Name:  es.cfg.Email.FromName,
		}},
		Subject: fmt.Sprintf("New assignment: %s", assignment.GameTitle),
		Html:    emailBody,
	}
}

func maskAddresses(list structs.AddressList) []string {
	out := make([]string, 0, len(list))
	for _, a := range list {
		out = append(out, lib.MaskEmail(a.Email))
	}
	return out
}
