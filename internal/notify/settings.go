package notify

import (
	"context"
	"database/sql"
	"fmt"

	"cardwatch/pkg/models"
)

// SettingsRepo persists the single email_settings row. Absent row reads as
// the zero value (disabled, unconfigured).
type SettingsRepo struct {
	DB *sql.DB
}

func NewSettingsRepo(db *sql.DB) *SettingsRepo {
	return &SettingsRepo{DB: db}
}

func (r *SettingsRepo) Get(ctx context.Context) (models.EmailSettings, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT enabled, sender_email, sender_password, recipient_email
		FROM email_settings
		WHERE id = 1
	`)

	var s models.EmailSettings
	err := row.Scan(&s.Enabled, &s.SenderEmail, &s.SenderPassword, &s.RecipientEmail)
	if err == sql.ErrNoRows {
		return models.EmailSettings{}, nil
	}
	if err != nil {
		return models.EmailSettings{}, fmt.Errorf("load email settings: %w", err)
	}
	return s, nil
}

func (r *SettingsRepo) Save(ctx context.Context, s models.EmailSettings) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO email_settings (id, enabled, sender_email, sender_password, recipient_email)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  enabled = excluded.enabled,
		  sender_email = excluded.sender_email,
		  sender_password = excluded.sender_password,
		  recipient_email = excluded.recipient_email
	`, s.Enabled, s.SenderEmail, s.SenderPassword, s.RecipientEmail)
	if err != nil {
		return fmt.Errorf("save email settings: %w", err)
	}
	return nil
}
