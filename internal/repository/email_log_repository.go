// internal/repository/email_log_repository.go
package repository

import (
	"context"
	"database/sql"

	"github.com/unclebandit/hvac-backend/internal/model"
)

type EmailLogRepositoryInterface interface {
	Create(ctx context.Context, l *model.EmailLog) error
	List(ctx context.Context, emailType string, page model.PageRequest) ([]model.EmailLog, int, error)
}

// EmailLogRepository records the outcome of every delivery attempt.
type EmailLogRepository struct {
	DB *sql.DB
}

func (r *EmailLogRepository) Create(ctx context.Context, l *model.EmailLog) error {
	return insertEmailLog(ctx, r.DB, l)
}

func insertEmailLog(ctx context.Context, q DBTX, l *model.EmailLog) error {
	query := `
        INSERT INTO email_logs (customer_id, recipient_email, recipient_name, subject, email_type, status, error_message)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, sent_at
    `
	return q.QueryRowContext(ctx, query,
		l.CustomerID, l.RecipientEmail, l.RecipientName, l.Subject, l.EmailType, l.Status, l.ErrorMessage,
	).Scan(&l.ID, &l.SentAt)
}

func (r *EmailLogRepository) List(ctx context.Context, emailType string, page model.PageRequest) ([]model.EmailLog, int, error) {
	w := newWhere()
	if emailType != "" {
		w.add("email_type = ?", emailType)
	}

	limit, args := w.page(page.Limit, page.Offset())
	rows, err := r.DB.QueryContext(ctx, `
        SELECT id, customer_id, recipient_email, recipient_name, subject, email_type, status, error_message, sent_at
        FROM email_logs`+w.sql+` ORDER BY sent_at DESC`+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	logs := []model.EmailLog{}
	for rows.Next() {
		var l model.EmailLog
		if err := rows.Scan(&l.ID, &l.CustomerID, &l.RecipientEmail, &l.RecipientName, &l.Subject, &l.EmailType,
			&l.Status, &l.ErrorMessage, &l.SentAt); err != nil {
			return nil, 0, err
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	total, err := w.count(ctx, r.DB, "email_logs")
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
