package services

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	apperrors "idoljournal/internal/errors"
	"idoljournal/internal/logger"
	"idoljournal/internal/models"
	"idoljournal/internal/pagination"
	"idoljournal/internal/store"
)

// auditService keeps the per-user activity trail of journal changes.
type auditService struct {
	entries store.Collection[models.AuditLog]
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{entries: store.NewCollection[models.AuditLog](db, "created_at DESC")}
}

// Log records an activity entry. Failures are logged and never returned, so a
// broken trail cannot fail the change it describes.
func (s *auditService) Log(ctx context.Context, userID, action, resourceType, resourceID, ipAddress string, changes map[string]any) {
	if userID == "" {
		logger.Get().Warnw("dropping audit entry without user", "action", action, "resource_type", resourceType)
		return
	}

	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      encodeChanges(action, changes),
	}

	if err := s.entries.Create(ctx, entry); err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"user_id", userID,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}

// ListActivity returns the user's activity, newest first.
func (s *auditService) ListActivity(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error) {
	result, err := s.entries.QueryPage(ctx, store.Filter{"user_id": userID}, page)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

func encodeChanges(action string, changes map[string]any) string {
	if len(changes) == 0 {
		return ""
	}
	data, err := json.Marshal(changes)
	if err != nil {
		logger.Get().Errorw("failed to marshal audit log changes", "error", err, "action", action)
		return "{}"
	}
	return string(data)
}
