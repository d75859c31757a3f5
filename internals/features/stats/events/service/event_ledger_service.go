// file: internals/features/stats/events/service/event_ledger_service.go
package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/stats/events/dto"
	model "sekolahku_backend/internals/features/stats/events/model"
)

/* =============================================================================
   Ledger idempotensi + version gate.
   Klaim ditulis di AKHIR transaksi event (bukan awal): baris klaim dan
   seluruh efek event commit atau rollback bersama. Dua delivery paralel
   event yang sama akan bentrok di PK processed_events — yang kalah
   dianggap duplicate, bukan error.
============================================================================= */

type EventLedgerService struct{}

func NewEventLedgerService() *EventLedgerService { return &EventLedgerService{} }

func (s *EventLedgerService) AlreadyProcessed(tx *gorm.DB, eventID uuid.UUID) (bool, error) {
	var row model.ProcessedEventModel
	err := tx.Where("processed_event_id = ?", eventID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *EventLedgerService) Claim(tx *gorm.DB, env *dto.EventEnvelope) error {
	return tx.Create(&model.ProcessedEventModel{
		ProcessedEventID:          env.EventID,
		ProcessedEventType:        string(env.EventType),
		ProcessedEventOccurredAt:  env.OccurredAt,
		ProcessedEventProcessedAt: time.Now(),
	}).Error
}

// IsUniqueViolation mendeteksi pelanggaran unique constraint lintas driver
// (SQLSTATE 23505 di Postgres, fallback pencocokan pesan untuk driver lain).
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 23505") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// FindAudit mengambil mirror attempt (nil bila belum pernah terlihat).
func (s *EventLedgerService) FindAudit(tx *gorm.DB, attemptID uuid.UUID) (*model.AttemptAuditModel, error) {
	var row model.AttemptAuditModel
	err := tx.Where("attempt_audit_attempt_id = ?", attemptID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// IsStale: mirror sudah memegang version lebih tinggi → event datang
// terlambat dan tidak boleh menimpa view yang lebih baru. Version sama
// dengan event id berbeda BUKAN stale — itu anomali upstream, diproses
// last-write-wins oleh pemanggil.
func (s *EventLedgerService) IsStale(prev *model.AttemptAuditModel, incomingVersion int64) bool {
	return prev != nil && prev.AttemptAuditVersion > incomingVersion
}

// UpsertAudit menulis view terbaru attempt ke mirror. Baris lama (bila ada)
// di-overwrite penuh, bukan di-merge; mirror selalu cermin event terakhir
// yang menang version gate.
func (s *EventLedgerService) UpsertAudit(tx *gorm.DB, prev *model.AttemptAuditModel, view *model.AttemptAuditModel) error {
	if prev == nil {
		return tx.Create(view).Error
	}
	view.AttemptAuditID = prev.AttemptAuditID
	view.AttemptAuditCreatedAt = prev.AttemptAuditCreatedAt
	view.AttemptAuditUpdatedAt = time.Now()
	return tx.Model(&model.AttemptAuditModel{}).
		Where("attempt_audit_id = ?", prev.AttemptAuditID).
		Updates(map[string]any{
			"attempt_audit_student_id":  view.AttemptAuditStudentID,
			"attempt_audit_schedule_id": view.AttemptAuditScheduleID,
			"attempt_audit_class_id":    view.AttemptAuditClassID,
			"attempt_audit_quiz_id":     view.AttemptAuditQuizID,
			"attempt_audit_version":     view.AttemptAuditVersion,
			"attempt_audit_score":       view.AttemptAuditScore,
			"attempt_audit_max_score":   view.AttemptAuditMaxScore,
			"attempt_audit_subject":     view.AttemptAuditSubject,
			"attempt_audit_topic":       view.AttemptAuditTopic,
			"attempt_audit_finished_at": view.AttemptAuditFinishedAt,
			"attempt_audit_valid":       view.AttemptAuditValid,
			"attempt_audit_updated_at":  view.AttemptAuditUpdatedAt,
		}).Error
}
