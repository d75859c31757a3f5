// file: internals/features/stats/events/dto/event_envelope_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	model "sekolahku_backend/internals/features/stats/events/model"
)

/* =============================================================================
   Envelope event dari grading system (at-least-once, tanpa jaminan urutan
   antar message). Field score/max opsional: finalize tanpa keduanya tetap
   direkam di audit tapi tidak pernah jadi canonical.
============================================================================= */

type EventType string

const (
	EventAttemptFinalized   EventType = "attempt_finalized"
	EventAttemptInvalidated EventType = "attempt_invalidated"
	EventQuizDeleted        EventType = "quiz_deleted"
	EventQuizMetaUpdated    EventType = "quiz_meta_updated"
)

type EventEnvelope struct {
	EventID   uuid.UUID `json:"event_id" validate:"required"`
	EventType EventType `json:"event_type" validate:"required,oneof=attempt_finalized attempt_invalidated quiz_deleted quiz_meta_updated"`

	ClassID    uuid.UUID  `json:"class_id" validate:"required"`
	ScheduleID uuid.UUID  `json:"schedule_id" validate:"required"`
	QuizID     *uuid.UUID `json:"quiz_id,omitempty"`

	// Khusus event attempt
	AttemptID      *uuid.UUID `json:"attempt_id,omitempty"`
	StudentID      *uuid.UUID `json:"student_id,omitempty"`
	AttemptVersion int64      `json:"attempt_version,omitempty"`
	Score          *float64   `json:"score,omitempty"`
	MaxScore       *float64   `json:"max_score,omitempty"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`

	// Metadata kategori (finalize & quiz_meta_updated)
	Subject *string `json:"subject,omitempty"`
	Topic   *string `json:"topic,omitempty"`

	OccurredAt *time.Time `json:"occurred_at,omitempty"`
}

func (e *EventEnvelope) IsAttemptEvent() bool {
	return e.EventType == EventAttemptFinalized || e.EventType == EventAttemptInvalidated
}

// HasScore: syarat minimum supaya finalize bisa jadi canonical.
func (e *EventEnvelope) HasScore() bool {
	return e.Score != nil && e.MaxScore != nil
}

// CheckSemantics memvalidasi field wajib per tipe event. Envelope malformed
// ditolak sinkron TANPA klaim idempotensi — resend yang sudah dikoreksi
// masih bisa diproses.
func (e *EventEnvelope) CheckSemantics() map[string][]string {
	errs := map[string][]string{}
	if e.IsAttemptEvent() {
		if e.AttemptID == nil || *e.AttemptID == uuid.Nil {
			errs["attempt_id"] = append(errs["attempt_id"], "wajib untuk event attempt")
		}
		if e.StudentID == nil || *e.StudentID == uuid.Nil {
			errs["student_id"] = append(errs["student_id"], "wajib untuk event attempt")
		}
		if e.AttemptVersion <= 0 {
			errs["attempt_version"] = append(errs["attempt_version"], "wajib > 0")
		}
	}
	if e.EventType == EventQuizMetaUpdated && e.Subject == nil && e.Topic == nil {
		errs["subject"] = append(errs["subject"], "quiz_meta_updated butuh subject dan/atau topic")
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (e *EventEnvelope) SubjectOrEmpty() string {
	if e.Subject == nil {
		return ""
	}
	return *e.Subject
}

func (e *EventEnvelope) TopicOrEmpty() string {
	if e.Topic == nil {
		return ""
	}
	return *e.Topic
}

// ToAuditView membangun view audit dari envelope (upsert oleh ordering gate).
func (e *EventEnvelope) ToAuditView() *model.AttemptAuditModel {
	m := &model.AttemptAuditModel{
		AttemptAuditAttemptID:  *e.AttemptID,
		AttemptAuditStudentID:  *e.StudentID,
		AttemptAuditScheduleID: e.ScheduleID,
		AttemptAuditClassID:    e.ClassID,
		AttemptAuditVersion:    e.AttemptVersion,
		AttemptAuditScore:      e.Score,
		AttemptAuditMaxScore:   e.MaxScore,
		AttemptAuditSubject:    e.SubjectOrEmpty(),
		AttemptAuditTopic:      e.TopicOrEmpty(),
		AttemptAuditFinishedAt: e.FinishedAt,
		AttemptAuditValid:      e.EventType == EventAttemptFinalized && e.HasScore(),
	}
	if e.QuizID != nil {
		m.AttemptAuditQuizID = *e.QuizID
	}
	return m
}

/* =============================================================================
   Hasil ingest (dipakai controller untuk membedakan no-op vs applied).
   duplicate/stale/skipped tetap sukses — itu perilaku steady-state
   delivery at-least-once, bukan error.
============================================================================= */

type IngestStatus string

const (
	IngestApplied   IngestStatus = "applied"
	IngestDuplicate IngestStatus = "duplicate"
	IngestStale     IngestStatus = "stale"
	IngestSkipped   IngestStatus = "skipped"
	IngestReversed  IngestStatus = "reversed"
	IngestCorrected IngestStatus = "corrected"
)

type IngestResult struct {
	EventID uuid.UUID    `json:"event_id"`
	Status  IngestStatus `json:"status"`
	Detail  string       `json:"detail,omitempty"`
}
