// file: internals/features/stats/schedules/service/contribution_service.go
package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "sekolahku_backend/internals/features/stats/schedules/model"
	statsModel "sekolahku_backend/internals/features/stats/student_stats/model"
	statsService "sekolahku_backend/internals/features/stats/student_stats/service"
)

var ErrScheduleNotFound = errors.New("class_schedules: schedule not found")

/* =============================================================================
   Reweight & reversal bobot jadwal.
   Keduanya berjalan dalam SATU transaksi: pembaca tidak pernah melihat
   sebagian siswa sudah di bobot baru dan sebagian masih di bobot lama.
============================================================================= */

type ContributionService struct {
	Aggregate *statsService.AggregateService
}

func NewContributionService() *ContributionService {
	return &ContributionService{Aggregate: statsService.NewAggregateService()}
}

// ReweightSchedule mengubah bobot jadwal lalu menggeser overall_score semua
// siswa yang punya canonical untuk jadwal tsb: delta = pct × (baru − lama).
// Return jumlah baris siswa yang bergeser.
func (s *ContributionService) ReweightSchedule(db *gorm.DB, scheduleID uuid.UUID, newContribution float64) (int, error) {
	adjusted := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		sched, err := model.FindSchedule(tx, scheduleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrScheduleNotFound
			}
			return err
		}
		old := sched.ClassScheduleContribution
		if old == newContribution {
			return nil
		}

		if err := tx.Model(&model.ClassScheduleModel{}).
			Where("class_schedule_id = ?", scheduleID).
			Updates(map[string]any{
				"class_schedule_contribution": newContribution,
				"class_schedule_version":      gorm.Expr("class_schedule_version + 1"),
				"class_schedule_updated_at":   time.Now(),
			}).Error; err != nil {
			return err
		}

		adjusted, err = s.shiftOverall(tx, sched.ClassScheduleClassID, scheduleID, newContribution-old)
		return err
	})
	return adjusted, err
}

// shiftOverall menerapkan delta bobot ke setiap siswa kelas yang memegang
// canonical untuk jadwal. Iterasi di Go, write per baris tetap lewat guard
// version yang sama dengan jalur ingest.
func (s *ContributionService) shiftOverall(tx *gorm.DB, classID, scheduleID uuid.UUID, dContribution float64) (int, error) {
	var rows []statsModel.StudentClassStatModel
	if err := tx.Where("student_class_stats_class_id = ?", classID).Find(&rows).Error; err != nil {
		return 0, err
	}

	key := scheduleID.String()
	adjusted := 0
	for i := range rows {
		stat := &rows[i]
		canon, err := stat.CanonicalMap()
		if err != nil {
			return adjusted, err
		}
		entry, ok := canon[key]
		if !ok {
			continue
		}
		s.Aggregate.ApplyOverallDelta(stat, entry.Pct()*dContribution)
		if err := s.Aggregate.WriteStat(tx, stat); err != nil {
			return adjusted, err
		}
		adjusted++
	}
	return adjusted, nil
}

// RemoveSchedule menjalankan reversal penuh sebuah jadwal lalu menghapus
// baris roster-nya. Capture-then-delete: bobot dibaca dulu dari baris,
// baru baris dihapus, supaya delta reversal memakai bobot yang benar.
func (s *ContributionService) RemoveSchedule(db *gorm.DB, scheduleID uuid.UUID) (int, error) {
	reversed := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		reversed, err = s.ReverseSchedule(tx, scheduleID)
		if err != nil {
			return err
		}
		return tx.Where("class_schedule_id = ?", scheduleID).
			Delete(&model.ClassScheduleModel{}).Error
	})
	return reversed, err
}

// ReverseSchedule mencabut seluruh efek skor sebuah jadwal dari setiap siswa
// (canonical keluar, sums/overall/bucket/participation mundur) dan membuang
// baris schedule_stats. Absensi & streak TIDAK disentuh — hari hadir sudah
// earned. Dipakai oleh DELETE admin dan event quiz_deleted.
func (s *ContributionService) ReverseSchedule(tx *gorm.DB, scheduleID uuid.UUID) (int, error) {
	sched, err := model.FindSchedule(tx, scheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrScheduleNotFound
		}
		return 0, err
	}
	contribution := sched.ClassScheduleContribution

	var rows []statsModel.StudentClassStatModel
	if err := tx.Where("student_class_stats_class_id = ?", sched.ClassScheduleClassID).
		Find(&rows).Error; err != nil {
		return 0, err
	}

	reversed := 0
	for i := range rows {
		stat := &rows[i]
		changed, err := s.Aggregate.RemoveCanonical(tx, stat, scheduleID, contribution)
		if err != nil {
			return reversed, err
		}
		if !changed {
			continue
		}
		if err := s.Aggregate.WriteStat(tx, stat); err != nil {
			return reversed, err
		}
		reversed++
	}

	if err := tx.Where("schedule_stats_schedule_id = ?", scheduleID).
		Delete(&statsModel.ScheduleStatModel{}).Error; err != nil {
		return reversed, err
	}
	return reversed, nil
}
