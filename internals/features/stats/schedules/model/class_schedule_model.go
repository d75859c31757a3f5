// file: internals/features/stats/schedules/model/class_schedule_model.go
package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =============================================================================
   MODEL: class_schedules (read-model roster — CRUD-nya dimiliki layanan lain)
   Engine membaca contribution (bobot overall score) & menghapus baris saat
   reversal (protokol capture-then-delete, lihat service contribution).
============================================================================= */
type ClassScheduleModel struct {
	ClassScheduleID      uuid.UUID `json:"class_schedule_id" gorm:"column:class_schedule_id;type:uuid;primaryKey"`
	ClassScheduleClassID uuid.UUID `json:"class_schedule_class_id" gorm:"column:class_schedule_class_id;type:uuid;not null;index:idx_cs_class"`
	ClassScheduleQuizID  uuid.UUID `json:"class_schedule_quiz_id" gorm:"column:class_schedule_quiz_id;type:uuid;index:idx_cs_quiz"`

	ClassScheduleSubject string `json:"class_schedule_subject" gorm:"column:class_schedule_subject;type:varchar(80)"`
	ClassScheduleTopic   string `json:"class_schedule_topic" gorm:"column:class_schedule_topic;type:varchar(120)"`

	// Bobot jadwal terhadap overall score (0..∞)
	ClassScheduleContribution float64 `json:"class_schedule_contribution" gorm:"column:class_schedule_contribution;type:numeric(10,3);not null;default:0"`

	ClassScheduleVersion   int64     `json:"class_schedule_version" gorm:"column:class_schedule_version;not null;default:1"`
	ClassScheduleCreatedAt time.Time `json:"class_schedule_created_at" gorm:"column:class_schedule_created_at;not null;autoCreateTime"`
	ClassScheduleUpdatedAt time.Time `json:"class_schedule_updated_at" gorm:"column:class_schedule_updated_at;not null;autoUpdateTime"`
}

func (ClassScheduleModel) TableName() string { return "class_schedules" }

func (m *ClassScheduleModel) BeforeCreate(_ *gorm.DB) error {
	if m.ClassScheduleID == uuid.Nil {
		m.ClassScheduleID = uuid.New()
	}
	return nil
}

func (m *ClassScheduleModel) BeforeSave(_ *gorm.DB) error {
	m.ClassScheduleUpdatedAt = time.Now()
	return nil
}

// FindSchedule mengambil jadwal by id (gorm.ErrRecordNotFound bila tidak ada).
func FindSchedule(tx *gorm.DB, scheduleID uuid.UUID) (*ClassScheduleModel, error) {
	var m ClassScheduleModel
	if err := tx.Where("class_schedule_id = ?", scheduleID).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ScheduleContribution membaca bobot jadwal. Jadwal yang tidak terdaftar
// dihitung berbobot 0 (bukan error) supaya event tetap bisa diproses.
func ScheduleContribution(tx *gorm.DB, scheduleID uuid.UUID) (float64, error) {
	sched, err := FindSchedule(tx, scheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return sched.ClassScheduleContribution, nil
}
