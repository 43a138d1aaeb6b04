package repository

import (
	"context"
	"encoding/json"

	"mainet/internal/domain"

	"github.com/google/uuid"
)

// InsertAudit writes one audit log entry
func (s *Postgres) InsertAudit(ctx context.Context, log *domain.AuditLog) error {
	detailsJSON, err := json.Marshal(log.Details)
	if err != nil {
		detailsJSON = []byte("{}")
	}

	var userID *uuid.UUID
	if log.UserID != uuid.Nil {
		userID = &log.UserID
	}

	return s.db.QueryRow(ctx, `
		INSERT INTO audit_logs (user_id, action, category, details, ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, userID, log.Action, log.Category, detailsJSON, log.IP, log.UserAgent).Scan(&log.ID, &log.CreatedAt)
}
