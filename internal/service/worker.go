package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/unclebandit/hvac-backend/internal/mailer"
	"github.com/unclebandit/hvac-backend/internal/metrics"
	"github.com/unclebandit/hvac-backend/internal/model"
)

// EmailLogWriter defines the method the worker needs to record attempts.
type EmailLogWriter interface {
	Create(ctx context.Context, l *model.EmailLog) error
}

// EmailWorker delivers queued emails and records each attempt.
type EmailWorker struct {
	Sender      mailer.Sender
	Logs        EmailLogWriter
	Log         *logrus.Entry
	SendTimeout time.Duration
}

func NewEmailWorker(sender mailer.Sender, logs EmailLogWriter, log *logrus.Entry) *EmailWorker {
	return &EmailWorker{
		Sender:      sender,
		Logs:        logs,
		Log:         log,
		SendTimeout: 30 * time.Second,
	}
}

// Handle is the email_sends subscriber. A send error is returned so the
// queue can retry; an undecodable payload is dropped.
func (w *EmailWorker) Handle(payload []byte) error {
	var msg model.EmailMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		w.Log.WithError(err).Error("dropping malformed email payload")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.SendTimeout)
	defer cancel()

	return w.Deliver(ctx, msg)
}

// Deliver sends msg and writes its email_logs row, sent or failed.
func (w *EmailWorker) Deliver(ctx context.Context, msg model.EmailMessage) error {
	log := w.Log.WithFields(logrus.Fields{"email_id": msg.ID, "type": msg.Type, "to": msg.To})

	sendErr := w.Sender.Send(ctx, msg)

	entry := &model.EmailLog{
		CustomerID:     msg.CustomerID,
		RecipientEmail: msg.To,
		Subject:        msg.Subject,
		EmailType:      msg.Type,
		Status:         model.EmailStatusSent,
	}
	if msg.ToName != "" {
		entry.RecipientName = &msg.ToName
	}
	if sendErr != nil {
		errMsg := sendErr.Error()
		entry.Status = model.EmailStatusFailed
		entry.ErrorMessage = &errMsg
		log.WithError(sendErr).Warn("email send failed")
	} else {
		log.Info("email sent")
	}
	metrics.RecordEmail(string(msg.Type), entry.Status)

	if err := w.Logs.Create(ctx, entry); err != nil {
		log.WithError(err).Error("failed to write email log")
	}
	return sendErr
}
