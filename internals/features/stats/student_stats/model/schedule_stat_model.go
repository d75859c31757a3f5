// file: internals/features/stats/student_stats/model/schedule_stat_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =============================================================================
   MODEL: schedule_stats — satu baris per jadwal.
   Invariant: participants = jumlah baris student_class_stats yang punya
   entry canonical untuk jadwal ini.
============================================================================= */
type ScheduleStatModel struct {
	ScheduleStatsID         uuid.UUID `json:"schedule_stats_id" gorm:"column:schedule_stats_id;type:uuid;primaryKey"`
	ScheduleStatsScheduleID uuid.UUID `json:"schedule_stats_schedule_id" gorm:"column:schedule_stats_schedule_id;type:uuid;not null;uniqueIndex:uq_ss_schedule"`
	ScheduleStatsClassID    uuid.UUID `json:"schedule_stats_class_id" gorm:"column:schedule_stats_class_id;type:uuid;not null;index:idx_ss_class"`

	ScheduleStatsParticipants int     `json:"schedule_stats_participants" gorm:"column:schedule_stats_participants;not null;default:0"`
	ScheduleStatsSumScore     float64 `json:"schedule_stats_sum_score" gorm:"column:schedule_stats_sum_score;type:numeric(12,3);not null;default:0"`
	ScheduleStatsSumMax       float64 `json:"schedule_stats_sum_max" gorm:"column:schedule_stats_sum_max;type:numeric(12,3);not null;default:0"`

	ScheduleStatsVersion   int64     `json:"schedule_stats_version" gorm:"column:schedule_stats_version;not null;default:1"`
	ScheduleStatsCreatedAt time.Time `json:"schedule_stats_created_at" gorm:"column:schedule_stats_created_at;not null;autoCreateTime"`
	ScheduleStatsUpdatedAt time.Time `json:"schedule_stats_updated_at" gorm:"column:schedule_stats_updated_at;not null;autoUpdateTime"`
}

func (ScheduleStatModel) TableName() string { return "schedule_stats" }

func (m *ScheduleStatModel) BeforeCreate(_ *gorm.DB) error {
	if m.ScheduleStatsID == uuid.Nil {
		m.ScheduleStatsID = uuid.New()
	}
	return nil
}
