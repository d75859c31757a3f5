// file: internals/features/stats/student_stats/service/rollup_service.go
package service

import (
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "sekolahku_backend/internals/features/stats/student_stats/model"
)

/* =============================================================================
   Class rollup — reduksi read-time murni atas semua baris siswa satu kelas.
   Tidak ada dokumen "class stats" tersimpan: setiap read menghitung ulang,
   menukar sedikit biaya baca dengan hilangnya tempat ketiga yang bisa
   drift dari invariant agregat.
============================================================================= */

type RollupService struct{}

func NewRollupService() *RollupService { return &RollupService{} }

type ClassRollup struct {
	ClassID      uuid.UUID                   `json:"class_id"`
	Attempts     int                         `json:"attempts"`
	SumScore     float64                     `json:"sum_score"`
	SumMax       float64                     `json:"sum_max"`
	Participants []uuid.UUID                 `json:"participants"`
	BySubject    map[string]model.StatBucket `json:"by_subject"`
}

func (s *RollupService) ClassRollup(tx *gorm.DB, classID uuid.UUID) (*ClassRollup, error) {
	rows, err := classStatRows(tx, classID)
	if err != nil {
		return nil, err
	}

	out := &ClassRollup{
		ClassID:      classID,
		Participants: []uuid.UUID{},
		BySubject:    map[string]model.StatBucket{},
	}
	for i := range rows {
		r := &rows[i]
		out.Attempts += r.StudentClassStatsParticipationCount
		out.SumScore += r.StudentClassStatsSumScore
		out.SumMax += r.StudentClassStatsSumMax
		if r.StudentClassStatsParticipationCount > 0 {
			out.Participants = append(out.Participants, r.StudentClassStatsStudentID)
		}

		subjects, err := r.SubjectMap()
		if err != nil {
			return nil, err
		}
		for label, b := range subjects {
			model.ApplyBucketDelta(out.BySubject, label, b.SumScore, b.SumMax, b.Attempts)
		}
	}
	return out, nil
}

// Leaderboard: baris siswa diurutkan overall desc (tie: participation desc,
// lalu student id supaya stabil).
func (s *RollupService) Leaderboard(tx *gorm.DB, classID uuid.UUID, limit int) ([]model.StudentClassStatModel, error) {
	rows, err := classStatRows(tx, classID)
	if err != nil {
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.StudentClassStatsOverallScore != b.StudentClassStatsOverallScore {
			return a.StudentClassStatsOverallScore > b.StudentClassStatsOverallScore
		}
		if a.StudentClassStatsParticipationCount != b.StudentClassStatsParticipationCount {
			return a.StudentClassStatsParticipationCount > b.StudentClassStatsParticipationCount
		}
		return a.StudentClassStatsStudentID.String() < b.StudentClassStatsStudentID.String()
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func classStatRows(tx *gorm.DB, classID uuid.UUID) ([]model.StudentClassStatModel, error) {
	var rows []model.StudentClassStatModel
	if err := tx.Where("student_class_stats_class_id = ?", classID).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
