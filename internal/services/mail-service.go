package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"strings"

	"github.com/ibrahimchallal/tournament_service/internal/dto"
	"github.com/ibrahimchallal/tournament_service/internal/helper/utils"
)

type MailService struct {
	gmailUser    string
	gmailAppPass string
	mailFrom     string
	mailFromName string
	subject      string
}

func NewMailService(gmailUser, gmailAppPass, mailFrom, mailFromName, subject string) *MailService {
	return &MailService{
		gmailUser:    gmailUser,
		gmailAppPass: gmailAppPass,
		mailFrom:     mailFrom,
		mailFromName: mailFromName,
		subject:      subject,
	}
}

func (s *MailService) SendConfirmation(to, fullName, groupCode string) error {
	htmlBody, err := s.renderConfirmationTemplate(fullName, groupCode)
	if err != nil {
		return err
	}

	fromHeader := fmt.Sprintf("%s <%s>", s.mailFromName, s.mailFrom)

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", fromHeader),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", s.subject),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		htmlBody,
	}, "\r\n")

	log.Printf("[MAIL] smtp sending to=%s via=%s", utils.MaskEmail(to), "smtp.gmail.com:587")

	auth := smtp.PlainAuth("", s.gmailUser, s.gmailAppPass, "smtp.gmail.com")
	if err := smtp.SendMail("smtp.gmail.com:587", auth, s.mailFrom, []string{to}, []byte(msg)); err != nil {
		return err
	}

	log.Printf("[MAIL] sent to=%s", utils.MaskEmail(to))
	return nil
}

func (s *MailService) renderConfirmationTemplate(fullName, groupCode string) (string, error) {
	tmpl, err := template.ParseFiles("internal/templates/registration-confirmed.html")
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, map[string]string{
		"FullName":  fullName,
		"GroupCode": groupCode,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// MailEventHandler unmarshals registration.created events off the queue and
// hands them to the mail service.
type MailEventHandler struct {
	Mail *MailService
}

func NewMailEventHandler(mail *MailService) *MailEventHandler {
	return &MailEventHandler{Mail: mail}
}

func (h *MailEventHandler) HandleMessage(message string) error {
	var event dto.RegistrationCreatedEvent

	if err := json.Unmarshal([]byte(message), &event); err != nil {
		log.Printf("invalid event payload: %s", message)
		return err
	}

	log.Printf("registration created event: id=%d email=%s group=%s",
		event.ID, utils.MaskEmail(event.Email), event.GroupCode)

	return h.Mail.SendConfirmation(event.Email, event.FullName, event.GroupCode)
}
