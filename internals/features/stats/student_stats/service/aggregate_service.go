// file: internals/features/stats/student_stats/service/aggregate_service.go
package service

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	eventsModel "sekolahku_backend/internals/features/stats/events/model"
	model "sekolahku_backend/internals/features/stats/student_stats/model"
)

// ErrVersionConflict: baris stats diubah writer lain di tengah unit of work.
// Transaksi pemanggil wajib rollback; transport akan retry dan ledger
// idempotensi menjaga retry tetap aman.
var ErrVersionConflict = errors.New("student_class_stats: version conflict")

type AggregateService struct{}

func NewAggregateService() *AggregateService { return &AggregateService{} }

/* ===================================================================
   Lazy upsert baris agregat (unik via index komposit)
=================================================================== */

func (s *AggregateService) EnsureStudentClassStat(tx *gorm.DB, studentID, classID uuid.UUID) (*model.StudentClassStatModel, error) {
	rec := model.StudentClassStatModel{
		StudentClassStatsStudentID:           studentID,
		StudentClassStatsClassID:             classID,
		StudentClassStatsCanonicalBySchedule: []byte(`{}`),
		StudentClassStatsAttendanceDays:      []byte(`{}`),
		StudentClassStatsBySubject:           []byte(`{}`),
		StudentClassStatsByTopic:             []byte(`{}`),
		StudentClassStatsVersion:             1,
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "student_class_stats_student_id"},
			{Name: "student_class_stats_class_id"},
		},
		DoNothing: true,
	}).Create(&rec).Error; err != nil {
		return nil, err
	}

	var out model.StudentClassStatModel
	if err := tx.
		Where("student_class_stats_student_id = ? AND student_class_stats_class_id = ?", studentID, classID).
		First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AggregateService) ensureScheduleStat(tx *gorm.DB, scheduleID, classID uuid.UUID) error {
	rec := model.ScheduleStatModel{
		ScheduleStatsScheduleID: scheduleID,
		ScheduleStatsClassID:    classID,
		ScheduleStatsVersion:    1,
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "schedule_stats_schedule_id"}},
		DoNothing: true,
	}).Create(&rec).Error
}

/* ===================================================================
   Canonical selector (kebijakan §replace):
   - belum ada canonical  → attempt ini jadi canonical (first gain)
   - skor baru >  skor lama → replace, delta = selisih
   - skor baru == skor lama → incumbent dipertahankan (hindari churn
     attempt id yang tampil ke user), delta 0
   - skor baru <  skor lama → tidak ada efek
=================================================================== */

// ApplyCandidate memproses kandidat canonical dari satu attempt finalize/edit.
// Edit terhadap attempt yang sedang canonical tidak bisa pakai aturan di
// atas (skornya bisa turun) — jalur itu reselect dari audit mirror.
func (s *AggregateService) ApplyCandidate(
	tx *gorm.DB,
	stat *model.StudentClassStatModel,
	scheduleID uuid.UUID,
	cand model.CanonicalEntry,
	contribution float64,
) (bool, error) {
	canon, err := stat.CanonicalMap()
	if err != nil {
		return false, err
	}
	prev, exists := canon[scheduleID.String()]

	if exists && prev.AttemptID == cand.AttemptID {
		// Re-score attempt canonical sendiri → seleksi ulang dari mirror
		return s.ReselectCanonical(tx, stat, scheduleID, contribution)
	}
	if exists && cand.Score <= prev.Score {
		return false, nil
	}
	return true, s.setCanonical(tx, stat, scheduleID, &cand, contribution)
}

// ReselectCanonical memilih ulang attempt valid terbaik untuk (siswa, jadwal)
// dari audit mirror: skor desc, lalu finished_at terbaru, version tertinggi,
// attempt id desc. Tidak ada kandidat → slot dikosongkan (participation -1).
func (s *AggregateService) ReselectCanonical(
	tx *gorm.DB,
	stat *model.StudentClassStatModel,
	scheduleID uuid.UUID,
	contribution float64,
) (bool, error) {
	best, err := bestValidAttempt(tx, stat.StudentClassStatsStudentID, scheduleID)
	if err != nil {
		return false, err
	}

	canon, err := stat.CanonicalMap()
	if err != nil {
		return false, err
	}
	prev, exists := canon[scheduleID.String()]

	if best == nil {
		if !exists {
			return false, nil
		}
		return true, s.setCanonical(tx, stat, scheduleID, nil, contribution)
	}

	next := model.CanonicalEntry{
		AttemptID:  best.AttemptAuditAttemptID,
		Score:      *best.AttemptAuditScore,
		MaxScore:   *best.AttemptAuditMaxScore,
		FinishedAt: best.AttemptAuditFinishedAt,
		Subject:    best.AttemptAuditSubject,
		Topic:      best.AttemptAuditTopic,
	}
	if exists && prev.AttemptID == next.AttemptID &&
		prev.Score == next.Score && prev.MaxScore == next.MaxScore &&
		prev.Subject == next.Subject && prev.Topic == next.Topic {
		return false, nil
	}
	// Tie skor dengan incumbent yang masih valid → incumbent menang
	if exists && best.AttemptAuditAttemptID != prev.AttemptID && next.Score == prev.Score {
		if stillValid, err := attemptStillValid(tx, prev.AttemptID); err != nil {
			return false, err
		} else if stillValid {
			return false, nil
		}
	}
	return true, s.setCanonical(tx, stat, scheduleID, &next, contribution)
}

func bestValidAttempt(tx *gorm.DB, studentID, scheduleID uuid.UUID) (*eventsModel.AttemptAuditModel, error) {
	var rows []eventsModel.AttemptAuditModel
	if err := tx.
		Where("attempt_audit_student_id = ? AND attempt_audit_schedule_id = ? AND attempt_audit_valid = ?",
			studentID, scheduleID, true).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	// Sortir di Go: NULLS LAST pada finished_at tidak portabel antar dialek
	cands := rows[:0]
	for _, r := range rows {
		if r.HasScore() {
			cands = append(cands, r)
		}
	}
	if len(cands) == 0 {
		return nil, nil
	}
	sort.Slice(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if *a.AttemptAuditScore != *b.AttemptAuditScore {
			return *a.AttemptAuditScore > *b.AttemptAuditScore
		}
		af, bf := a.AttemptAuditFinishedAt, b.AttemptAuditFinishedAt
		switch {
		case af != nil && bf != nil && !af.Equal(*bf):
			return af.After(*bf)
		case af != nil && bf == nil:
			return true
		case af == nil && bf != nil:
			return false
		}
		if a.AttemptAuditVersion != b.AttemptAuditVersion {
			return a.AttemptAuditVersion > b.AttemptAuditVersion
		}
		return a.AttemptAuditAttemptID.String() > b.AttemptAuditAttemptID.String()
	})
	return &cands[0], nil
}

func attemptStillValid(tx *gorm.DB, attemptID uuid.UUID) (bool, error) {
	var row eventsModel.AttemptAuditModel
	err := tx.Where("attempt_audit_attempt_id = ?", attemptID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return row.AttemptAuditValid && row.HasScore(), nil
}

/* ===================================================================
   Aggregate updater — semua mutasi lewat delta, tidak pernah overwrite
   field agregat secara utuh.
=================================================================== */

// RemoveCanonical mengosongkan slot canonical satu jadwal (dipakai reversal
// jadwal & invalidation tanpa pengganti). Absensi/streak TIDAK disentuh.
func (s *AggregateService) RemoveCanonical(
	tx *gorm.DB,
	stat *model.StudentClassStatModel,
	scheduleID uuid.UUID,
	contribution float64,
) (bool, error) {
	canon, err := stat.CanonicalMap()
	if err != nil {
		return false, err
	}
	if _, ok := canon[scheduleID.String()]; !ok {
		return false, nil
	}
	return true, s.setCanonical(tx, stat, scheduleID, nil, contribution)
}

// setCanonical menerapkan perubahan canonical prev→next sebagai delta ke
// sums, overall, participation, bucket subject/topic, dan schedule_stats.
// next nil = clear slot; slot kosong + next = first canonical.
func (s *AggregateService) setCanonical(
	tx *gorm.DB,
	stat *model.StudentClassStatModel,
	scheduleID uuid.UUID,
	next *model.CanonicalEntry,
	contribution float64,
) error {
	canon, err := stat.CanonicalMap()
	if err != nil {
		return err
	}
	subjects, err := stat.SubjectMap()
	if err != nil {
		return err
	}
	topics, err := stat.TopicMap()
	if err != nil {
		return err
	}

	key := scheduleID.String()
	var prev *model.CanonicalEntry
	if p, ok := canon[key]; ok {
		prev = &p
	}
	if prev == nil && next == nil {
		return nil
	}

	var dScore, dMax, dOverall float64
	dPart := 0
	if prev != nil {
		dScore -= prev.Score
		dMax -= prev.MaxScore
		dOverall -= prev.Pct() * contribution
	}
	if next != nil {
		dScore += next.Score
		dMax += next.MaxScore
		dOverall += next.Pct() * contribution
		canon[key] = *next
	} else {
		delete(canon, key)
	}
	switch {
	case prev == nil && next != nil:
		dPart = 1
	case prev != nil && next == nil:
		dPart = -1
	}

	applyBucketChange(subjects, prevLabel(prev, true), nextLabel(next, true), prev, next)
	applyBucketChange(topics, prevLabel(prev, false), nextLabel(next, false), prev, next)

	stat.StudentClassStatsSumScore += dScore
	stat.StudentClassStatsSumMax += dMax
	stat.StudentClassStatsOverallScore += dOverall
	stat.StudentClassStatsParticipationCount += dPart

	if err := stat.SetCanonicalMap(canon); err != nil {
		return err
	}
	if err := stat.SetSubjectMap(subjects); err != nil {
		return err
	}
	if err := stat.SetTopicMap(topics); err != nil {
		return err
	}

	return s.bumpScheduleStat(tx, scheduleID, stat.StudentClassStatsClassID, dScore, dMax, dPart)
}

func prevLabel(prev *model.CanonicalEntry, subject bool) string {
	if prev == nil {
		return ""
	}
	if subject {
		return prev.Subject
	}
	return prev.Topic
}

func nextLabel(next *model.CanonicalEntry, subject bool) string {
	if next == nil {
		return ""
	}
	if subject {
		return next.Subject
	}
	return next.Topic
}

// applyBucketChange: kategori sama → delta saja; beda kategori → pindahkan
// nilai penuh dari bucket lama ke bucket baru (prune otomatis di model).
func applyBucketChange(m map[string]model.StatBucket, oldLabel, newLabel string, prev, next *model.CanonicalEntry) {
	if prev != nil && next != nil && oldLabel == newLabel {
		model.ApplyBucketDelta(m, newLabel, next.Score-prev.Score, next.MaxScore-prev.MaxScore, 0)
		return
	}
	if prev != nil {
		model.ApplyBucketDelta(m, oldLabel, -prev.Score, -prev.MaxScore, -1)
	}
	if next != nil {
		model.ApplyBucketDelta(m, newLabel, next.Score, next.MaxScore, 1)
	}
}

// ApplyMetaCorrection memindahkan kontribusi bucket canonical satu jadwal ke
// label subject/topic baru (quiz_meta_updated) — tanpa delta skor.
func (s *AggregateService) ApplyMetaCorrection(
	tx *gorm.DB,
	stat *model.StudentClassStatModel,
	scheduleID uuid.UUID,
	newSubject, newTopic *string,
) (bool, error) {
	canon, err := stat.CanonicalMap()
	if err != nil {
		return false, err
	}
	key := scheduleID.String()
	entry, ok := canon[key]
	if !ok {
		return false, nil
	}

	next := entry
	if newSubject != nil {
		next.Subject = *newSubject
	}
	if newTopic != nil {
		next.Topic = *newTopic
	}
	if next.Subject == entry.Subject && next.Topic == entry.Topic {
		return false, nil
	}

	subjects, err := stat.SubjectMap()
	if err != nil {
		return false, err
	}
	topics, err := stat.TopicMap()
	if err != nil {
		return false, err
	}
	if next.Subject != entry.Subject {
		model.ApplyBucketDelta(subjects, entry.Subject, -entry.Score, -entry.MaxScore, -1)
		model.ApplyBucketDelta(subjects, next.Subject, entry.Score, entry.MaxScore, 1)
	}
	if next.Topic != entry.Topic {
		model.ApplyBucketDelta(topics, entry.Topic, -entry.Score, -entry.MaxScore, -1)
		model.ApplyBucketDelta(topics, next.Topic, entry.Score, entry.MaxScore, 1)
	}

	canon[key] = next
	if err := stat.SetCanonicalMap(canon); err != nil {
		return false, err
	}
	if err := stat.SetSubjectMap(subjects); err != nil {
		return false, err
	}
	if err := stat.SetTopicMap(topics); err != nil {
		return false, err
	}
	return true, nil
}

// ApplyOverallDelta: dipakai reweighter (perubahan bobot jadwal).
func (s *AggregateService) ApplyOverallDelta(stat *model.StudentClassStatModel, delta float64) {
	stat.StudentClassStatsOverallScore += delta
}

/* ===================================================================
   Persist — compare-and-increment, anti lost-update
=================================================================== */

// WriteStat menyimpan baris siswa dengan guard version (CAS). RowsAffected 0
// berarti writer lain menang → ErrVersionConflict, transaksi rollback.
func (s *AggregateService) WriteStat(tx *gorm.DB, stat *model.StudentClassStatModel) error {
	prevVersion := stat.StudentClassStatsVersion
	stat.StudentClassStatsVersion = prevVersion + 1
	stat.StudentClassStatsUpdatedAt = time.Now()

	res := tx.Model(&model.StudentClassStatModel{}).
		Where("student_class_stats_id = ? AND student_class_stats_version = ?", stat.StudentClassStatsID, prevVersion).
		Updates(map[string]any{
			"student_class_stats_sum_score":             stat.StudentClassStatsSumScore,
			"student_class_stats_sum_max":               stat.StudentClassStatsSumMax,
			"student_class_stats_participation_count":   stat.StudentClassStatsParticipationCount,
			"student_class_stats_overall_score":         stat.StudentClassStatsOverallScore,
			"student_class_stats_canonical_by_schedule": stat.StudentClassStatsCanonicalBySchedule,
			"student_class_stats_attendance_days":       stat.StudentClassStatsAttendanceDays,
			"student_class_stats_by_subject":            stat.StudentClassStatsBySubject,
			"student_class_stats_by_topic":              stat.StudentClassStatsByTopic,
			"student_class_stats_streak_days":           stat.StudentClassStatsStreakDays,
			"student_class_stats_best_streak_days":      stat.StudentClassStatsBestStreakDays,
			"student_class_stats_last_streak_date":      stat.StudentClassStatsLastStreakDate,
			"student_class_stats_version":               stat.StudentClassStatsVersion,
			"student_class_stats_updated_at":            stat.StudentClassStatsUpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}

// bumpScheduleStat menerapkan delta ke baris per-jadwal via increment SQL
// (aman tanpa CAS: murni counter). participants hanya bergeser saat
// first-gain / last-loss, bukan tiap replacement skor.
func (s *AggregateService) bumpScheduleStat(tx *gorm.DB, scheduleID, classID uuid.UUID, dScore, dMax float64, dParticipants int) error {
	if dScore == 0 && dMax == 0 && dParticipants == 0 {
		return nil
	}
	if err := s.ensureScheduleStat(tx, scheduleID, classID); err != nil {
		return err
	}
	set := map[string]any{
		"schedule_stats_sum_score":  gorm.Expr("schedule_stats_sum_score + ?", dScore),
		"schedule_stats_sum_max":    gorm.Expr("schedule_stats_sum_max + ?", dMax),
		"schedule_stats_version":    gorm.Expr("schedule_stats_version + 1"),
		"schedule_stats_updated_at": time.Now(),
	}
	if dParticipants != 0 {
		set["schedule_stats_participants"] = gorm.Expr(
			"CASE WHEN schedule_stats_participants + ? < 0 THEN 0 ELSE schedule_stats_participants + ? END",
			dParticipants, dParticipants,
		)
	}
	return tx.Model(&model.ScheduleStatModel{}).
		Where("schedule_stats_schedule_id = ?", scheduleID).
		Updates(set).Error
}
