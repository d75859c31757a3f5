// file: internals/features/stats/student_stats/model/student_class_stat_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* =============================================================================
   Entry canonical per jadwal: satu attempt terpilih yang mewakili hasil
   siswa untuk jadwal tsb. Semua matematika agregat memakai entry ini.
============================================================================= */
type CanonicalEntry struct {
	AttemptID  uuid.UUID  `json:"attempt_id"`
	Score      float64    `json:"score"`
	MaxScore   float64    `json:"max_score"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Subject    string     `json:"subject,omitempty"`
	Topic      string     `json:"topic,omitempty"`
}

// Pct menghitung persentase skor; max ≤ 0 dihitung 0 (bukan NaN/Inf).
func Pct(score, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return score / max
}

func (e CanonicalEntry) Pct() float64 { return Pct(e.Score, e.MaxScore) }

/* =============================================================================
   Bucket per subject/topic: sum skor + jumlah attempt canonical.
============================================================================= */
type StatBucket struct {
	SumScore float64 `json:"sum_score"`
	SumMax   float64 `json:"sum_max"`
	Attempts int     `json:"attempts"`
}

// ApplyBucketDelta menambah delta ke bucket label; bucket yang habis
// (attempts ≤ 0 atau kedua sum nol) di-prune supaya map tidak menumpuk
// entry kosong.
func ApplyBucketDelta(m map[string]StatBucket, label string, dScore, dMax float64, dAttempts int) {
	if label == "" {
		return
	}
	b := m[label]
	b.SumScore += dScore
	b.SumMax += dMax
	b.Attempts += dAttempts
	if b.Attempts <= 0 || (b.SumScore == 0 && b.SumMax == 0) {
		delete(m, label)
		return
	}
	m[label] = b
}

/* =============================================================================
   MODEL: student_class_stats — satu baris per (siswa, kelas).
   Invariant:
   - sum_score/sum_max = Σ entry canonical
   - participation_count = jumlah key canonical_by_schedule
   - overall_score = Σ pct(entry) × contribution(jadwal)
   - attendance_days hanya bertambah, tidak pernah dihapus
============================================================================= */
type StudentClassStatModel struct {
	// PK
	StudentClassStatsID uuid.UUID `json:"student_class_stats_id" gorm:"column:student_class_stats_id;type:uuid;primaryKey"`

	// Identitas
	StudentClassStatsStudentID uuid.UUID `json:"student_class_stats_student_id" gorm:"column:student_class_stats_student_id;type:uuid;not null;uniqueIndex:uq_scs_student_class,priority:1"`
	StudentClassStatsClassID   uuid.UUID `json:"student_class_stats_class_id" gorm:"column:student_class_stats_class_id;type:uuid;not null;uniqueIndex:uq_scs_student_class,priority:2;index:idx_scs_class"`

	// Agregat skor (hanya dari attempt canonical)
	StudentClassStatsSumScore           float64 `json:"student_class_stats_sum_score" gorm:"column:student_class_stats_sum_score;type:numeric(12,3);not null;default:0"`
	StudentClassStatsSumMax             float64 `json:"student_class_stats_sum_max" gorm:"column:student_class_stats_sum_max;type:numeric(12,3);not null;default:0"`
	StudentClassStatsParticipationCount int     `json:"student_class_stats_participation_count" gorm:"column:student_class_stats_participation_count;not null;default:0"`
	StudentClassStatsOverallScore       float64 `json:"student_class_stats_overall_score" gorm:"column:student_class_stats_overall_score;type:numeric(14,4);not null;default:0"`

	// Map dokumen (JSONB) — akses hanya lewat codec di json_map.go
	StudentClassStatsCanonicalBySchedule datatypes.JSON `json:"student_class_stats_canonical_by_schedule" gorm:"column:student_class_stats_canonical_by_schedule;type:jsonb;not null;default:'{}'"`
	StudentClassStatsAttendanceDays      datatypes.JSON `json:"student_class_stats_attendance_days" gorm:"column:student_class_stats_attendance_days;type:jsonb;not null;default:'{}'"`
	StudentClassStatsBySubject           datatypes.JSON `json:"student_class_stats_by_subject" gorm:"column:student_class_stats_by_subject;type:jsonb;not null;default:'{}'"`
	StudentClassStatsByTopic             datatypes.JSON `json:"student_class_stats_by_topic" gorm:"column:student_class_stats_by_topic;type:jsonb;not null;default:'{}'"`

	// Streak absensi
	StudentClassStatsStreakDays     int        `json:"student_class_stats_streak_days" gorm:"column:student_class_stats_streak_days;not null;default:0"`
	StudentClassStatsBestStreakDays int        `json:"student_class_stats_best_streak_days" gorm:"column:student_class_stats_best_streak_days;not null;default:0"`
	StudentClassStatsLastStreakDate *time.Time `json:"student_class_stats_last_streak_date,omitempty" gorm:"column:student_class_stats_last_streak_date"`

	// Optimistic concurrency (naik di setiap write)
	StudentClassStatsVersion int64 `json:"student_class_stats_version" gorm:"column:student_class_stats_version;not null;default:1"`

	// Audit
	StudentClassStatsCreatedAt time.Time `json:"student_class_stats_created_at" gorm:"column:student_class_stats_created_at;not null;autoCreateTime"`
	StudentClassStatsUpdatedAt time.Time `json:"student_class_stats_updated_at" gorm:"column:student_class_stats_updated_at;not null;autoUpdateTime"`
}

func (StudentClassStatModel) TableName() string { return "student_class_stats" }

func (m *StudentClassStatModel) BeforeCreate(_ *gorm.DB) error {
	if m.StudentClassStatsID == uuid.Nil {
		m.StudentClassStatsID = uuid.New()
	}
	return nil
}

/* ===================================================================
   Akses map (decode/encode lewat boundary tunggal)
=================================================================== */

func (m *StudentClassStatModel) CanonicalMap() (map[string]CanonicalEntry, error) {
	return DecodeJSONMap[CanonicalEntry](m.StudentClassStatsCanonicalBySchedule)
}

func (m *StudentClassStatModel) SetCanonicalMap(v map[string]CanonicalEntry) error {
	raw, err := EncodeJSONMap(v)
	if err != nil {
		return err
	}
	m.StudentClassStatsCanonicalBySchedule = raw
	return nil
}

func (m *StudentClassStatModel) AttendanceMap() (map[string]bool, error) {
	return DecodeJSONMap[bool](m.StudentClassStatsAttendanceDays)
}

func (m *StudentClassStatModel) SetAttendanceMap(v map[string]bool) error {
	raw, err := EncodeJSONMap(v)
	if err != nil {
		return err
	}
	m.StudentClassStatsAttendanceDays = raw
	return nil
}

func (m *StudentClassStatModel) SubjectMap() (map[string]StatBucket, error) {
	return DecodeJSONMap[StatBucket](m.StudentClassStatsBySubject)
}

func (m *StudentClassStatModel) SetSubjectMap(v map[string]StatBucket) error {
	raw, err := EncodeJSONMap(v)
	if err != nil {
		return err
	}
	m.StudentClassStatsBySubject = raw
	return nil
}

func (m *StudentClassStatModel) TopicMap() (map[string]StatBucket, error) {
	return DecodeJSONMap[StatBucket](m.StudentClassStatsByTopic)
}

func (m *StudentClassStatModel) SetTopicMap(v map[string]StatBucket) error {
	raw, err := EncodeJSONMap(v)
	if err != nil {
		return err
	}
	m.StudentClassStatsByTopic = raw
	return nil
}
