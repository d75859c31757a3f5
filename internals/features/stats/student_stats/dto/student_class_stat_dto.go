// file: internals/features/stats/student_stats/dto/student_class_stat_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	model "sekolahku_backend/internals/features/stats/student_stats/model"
	service "sekolahku_backend/internals/features/stats/student_stats/service"
)

/* =============================================================================
   Response shapes untuk surface baca.
   streak_days yang tampil adalah hasil proyeksi read-time (0 bila hari hadir
   terakhir bukan hari ini/kemarin di zona kelas) — kolom tersimpan tidak
   pernah dimundurkan oleh read.
============================================================================= */

type StudentClassStatResponse struct {
	StudentID uuid.UUID `json:"student_id"`
	ClassID   uuid.UUID `json:"class_id"`

	SumScore           float64 `json:"sum_score"`
	SumMax             float64 `json:"sum_max"`
	ParticipationCount int     `json:"participation_count"`
	OverallScore       float64 `json:"overall_score"`

	BySubject map[string]model.StatBucket `json:"by_subject"`
	ByTopic   map[string]model.StatBucket `json:"by_topic"`

	StreakDays     int        `json:"streak_days"`
	BestStreakDays int        `json:"best_streak_days"`
	LastStreakDate *time.Time `json:"last_streak_date,omitempty"`

	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromStudentClassStat membentuk response dari baris tersimpan, dengan streak
// diproyeksikan terhadap now di zona loc.
func FromStudentClassStat(m *model.StudentClassStatModel, now time.Time, loc *time.Location) (*StudentClassStatResponse, error) {
	subjects, err := m.SubjectMap()
	if err != nil {
		return nil, err
	}
	topics, err := m.TopicMap()
	if err != nil {
		return nil, err
	}

	att := service.NewAttendanceService()
	return &StudentClassStatResponse{
		StudentID:          m.StudentClassStatsStudentID,
		ClassID:            m.StudentClassStatsClassID,
		SumScore:           m.StudentClassStatsSumScore,
		SumMax:             m.StudentClassStatsSumMax,
		ParticipationCount: m.StudentClassStatsParticipationCount,
		OverallScore:       m.StudentClassStatsOverallScore,
		BySubject:          subjects,
		ByTopic:            topics,
		StreakDays:         att.ProjectedStreak(m, now, loc),
		BestStreakDays:     m.StudentClassStatsBestStreakDays,
		LastStreakDate:     m.StudentClassStatsLastStreakDate,
		Version:            m.StudentClassStatsVersion,
		UpdatedAt:          m.StudentClassStatsUpdatedAt,
	}, nil
}

type ClassRollupResponse struct {
	ClassID          uuid.UUID                   `json:"class_id"`
	Attempts         int                         `json:"attempts"`
	SumScore         float64                     `json:"sum_score"`
	SumMax           float64                     `json:"sum_max"`
	ParticipantCount int                         `json:"participant_count"`
	Participants     []uuid.UUID                 `json:"participants"`
	BySubject        map[string]model.StatBucket `json:"by_subject"`
}

func FromClassRollup(r *service.ClassRollup) *ClassRollupResponse {
	return &ClassRollupResponse{
		ClassID:          r.ClassID,
		Attempts:         r.Attempts,
		SumScore:         r.SumScore,
		SumMax:           r.SumMax,
		ParticipantCount: len(r.Participants),
		Participants:     r.Participants,
		BySubject:        r.BySubject,
	}
}

type LeaderboardEntry struct {
	Rank               int       `json:"rank"`
	StudentID          uuid.UUID `json:"student_id"`
	OverallScore       float64   `json:"overall_score"`
	ParticipationCount int       `json:"participation_count"`
	StreakDays         int       `json:"streak_days"`
}

func FromLeaderboardRows(rows []model.StudentClassStatModel, now time.Time, loc *time.Location) []LeaderboardEntry {
	att := service.NewAttendanceService()
	out := make([]LeaderboardEntry, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		out = append(out, LeaderboardEntry{
			Rank:               i + 1,
			StudentID:          r.StudentClassStatsStudentID,
			OverallScore:       r.StudentClassStatsOverallScore,
			ParticipationCount: r.StudentClassStatsParticipationCount,
			StreakDays:         att.ProjectedStreak(r, now, loc),
		})
	}
	return out
}
