// file: internals/features/stats/schedules/model/class_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =============================================================================
   MODEL: classes (read-model roster — CRUD-nya dimiliki layanan lain)
   Engine hanya butuh timezone kelas untuk day-key absensi.
============================================================================= */
type ClassModel struct {
	ClassID       uuid.UUID `json:"class_id" gorm:"column:class_id;type:uuid;primaryKey"`
	ClassName     string    `json:"class_name" gorm:"column:class_name;type:varchar(120);not null"`
	ClassTimezone string    `json:"class_timezone" gorm:"column:class_timezone;type:varchar(64);not null;default:'Asia/Jakarta'"`

	ClassCreatedAt time.Time `json:"class_created_at" gorm:"column:class_created_at;not null;autoCreateTime"`
	ClassUpdatedAt time.Time `json:"class_updated_at" gorm:"column:class_updated_at;not null;autoUpdateTime"`
}

func (ClassModel) TableName() string { return "classes" }

func (m *ClassModel) BeforeCreate(_ *gorm.DB) error {
	if m.ClassID == uuid.Nil {
		m.ClassID = uuid.New()
	}
	return nil
}

// Location memetakan zona IANA kelas; fallback ke default lalu UTC.
func (m *ClassModel) Location(defaultTZ string) *time.Location {
	if loc, err := time.LoadLocation(m.ClassTimezone); err == nil {
		return loc
	}
	if loc, err := time.LoadLocation(defaultTZ); err == nil {
		return loc
	}
	return time.UTC
}

// FindClass mengambil kelas by id (gorm.ErrRecordNotFound bila tidak ada).
func FindClass(tx *gorm.DB, classID uuid.UUID) (*ClassModel, error) {
	var m ClassModel
	if err := tx.Where("class_id = ?", classID).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}
