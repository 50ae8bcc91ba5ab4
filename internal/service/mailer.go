package service

import (
	"nexus-assist/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Mailer delivers account emails (OTP codes, reset links).
type Mailer interface {
	Send(to, subject, body string) error
}

// LogMailer writes emails to the log instead of sending them.
type LogMailer struct{}

func (LogMailer) Send(to, subject, body string) error {
	logger.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
	}).Info(body)
	return nil
}
