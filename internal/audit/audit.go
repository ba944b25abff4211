package audit

import (
	"encoding/json"
	"log/slog"

	"github.com/bobby0007/internal-CRM/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recorder appends mutation records. Recording is best-effort: a failed
// insert is logged and never fails the originating request.
type Recorder struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRecorder(db *gorm.DB, logger *slog.Logger) *Recorder {
	return &Recorder{db: db, logger: logger.With("component", "audit")}
}

// Record stores one mutation. A nil recorder is a no-op so handlers can be
// exercised without a database.
func (r *Recorder) Record(actor, action, entity string, detail interface{}) {
	if r == nil || r.db == nil {
		return
	}
	payload := ""
	if detail != nil {
		if data, err := json.Marshal(detail); err == nil {
			payload = string(data)
		}
	}
	entry := models.AuditEntry{
		ID:     uuid.NewString(),
		Actor:  actor,
		Action: action,
		Entity: entity,
		Detail: payload,
	}
	if err := r.db.Create(&entry).Error; err != nil {
		r.logger.Error("failed to record audit entry", "action", action, "error", err)
	}
}

// Recent returns the newest entries, most recent first.
func (r *Recorder) Recent(limit int) ([]models.AuditEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	var entries []models.AuditEntry
	if err := r.db.Order("created_at DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
