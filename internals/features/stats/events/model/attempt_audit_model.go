// file: internals/features/stats/events/model/attempt_audit_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =============================================================================
   MODEL: attempt_audit_rows — mirror view terakhir per attempt id.
   Bukan agregat: dipakai untuk tolak event basi (version gate) dan
   merekonstruksi nilai "sebelumnya" saat menghitung delta / promosi
   canonical berikutnya.
============================================================================= */
type AttemptAuditModel struct {
	AttemptAuditID uuid.UUID `json:"attempt_audit_id" gorm:"column:attempt_audit_id;type:uuid;primaryKey"`

	AttemptAuditAttemptID  uuid.UUID `json:"attempt_audit_attempt_id" gorm:"column:attempt_audit_attempt_id;type:uuid;not null;uniqueIndex:uq_aar_attempt"`
	AttemptAuditStudentID  uuid.UUID `json:"attempt_audit_student_id" gorm:"column:attempt_audit_student_id;type:uuid;not null;index:idx_aar_student_schedule,priority:1"`
	AttemptAuditScheduleID uuid.UUID `json:"attempt_audit_schedule_id" gorm:"column:attempt_audit_schedule_id;type:uuid;not null;index:idx_aar_student_schedule,priority:2"`
	AttemptAuditClassID    uuid.UUID `json:"attempt_audit_class_id" gorm:"column:attempt_audit_class_id;type:uuid;not null;index:idx_aar_class"`
	AttemptAuditQuizID     uuid.UUID `json:"attempt_audit_quiz_id" gorm:"column:attempt_audit_quiz_id;type:uuid;index:idx_aar_quiz"`

	// View terakhir dari grading system
	AttemptAuditVersion    int64      `json:"attempt_audit_version" gorm:"column:attempt_audit_version;not null;default:0"`
	AttemptAuditScore      *float64   `json:"attempt_audit_score,omitempty" gorm:"column:attempt_audit_score;type:numeric(12,3)"`
	AttemptAuditMaxScore   *float64   `json:"attempt_audit_max_score,omitempty" gorm:"column:attempt_audit_max_score;type:numeric(12,3)"`
	AttemptAuditSubject    string     `json:"attempt_audit_subject" gorm:"column:attempt_audit_subject;type:varchar(80)"`
	AttemptAuditTopic      string     `json:"attempt_audit_topic" gorm:"column:attempt_audit_topic;type:varchar(120)"`
	AttemptAuditFinishedAt *time.Time `json:"attempt_audit_finished_at,omitempty" gorm:"column:attempt_audit_finished_at"`
	AttemptAuditValid      bool       `json:"attempt_audit_valid" gorm:"column:attempt_audit_valid;not null;default:false"`

	AttemptAuditCreatedAt time.Time `json:"attempt_audit_created_at" gorm:"column:attempt_audit_created_at;not null;autoCreateTime"`
	AttemptAuditUpdatedAt time.Time `json:"attempt_audit_updated_at" gorm:"column:attempt_audit_updated_at;not null;autoUpdateTime"`
}

func (AttemptAuditModel) TableName() string { return "attempt_audit_rows" }

func (m *AttemptAuditModel) BeforeCreate(_ *gorm.DB) error {
	if m.AttemptAuditID == uuid.Nil {
		m.AttemptAuditID = uuid.New()
	}
	return nil
}

// HasScore: finalize hanya dianggap valid bila score & max_score terisi.
func (m *AttemptAuditModel) HasScore() bool {
	return m.AttemptAuditScore != nil && m.AttemptAuditMaxScore != nil
}
