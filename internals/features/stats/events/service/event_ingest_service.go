// file: internals/features/stats/events/service/event_ingest_service.go
package service

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sekolahku_backend/internals/configs"
	"sekolahku_backend/internals/features/stats/events/dto"
	eventsModel "sekolahku_backend/internals/features/stats/events/model"
	schedModel "sekolahku_backend/internals/features/stats/schedules/model"
	schedService "sekolahku_backend/internals/features/stats/schedules/service"
	statsModel "sekolahku_backend/internals/features/stats/student_stats/model"
	statsService "sekolahku_backend/internals/features/stats/student_stats/service"
)

/* =============================================================================
   Orkestrator ingest: satu event = satu transaksi.
   Urutan di dalam transaksi:
     dedupe → version gate → upsert mirror → efek agregat → klaim ledger
   Klaim ada di transaksi yang sama dengan efek, jadi tidak pernah ada
   event "terklaim tapi efeknya hilang" ataupun sebaliknya.
============================================================================= */

type EventIngestService struct {
	Ledger       *EventLedgerService
	Aggregate    *statsService.AggregateService
	Attendance   *statsService.AttendanceService
	Contribution *schedService.ContributionService
}

func NewEventIngestService() *EventIngestService {
	return &EventIngestService{
		Ledger:       NewEventLedgerService(),
		Aggregate:    statsService.NewAggregateService(),
		Attendance:   statsService.NewAttendanceService(),
		Contribution: schedService.NewContributionService(),
	}
}

// Ingest memproses satu envelope yang sudah lolos validasi bentuk & semantik.
// Envelope malformed TIDAK boleh sampai ke sini — penolakannya terjadi di
// controller tanpa klaim, supaya resend yang dikoreksi masih bisa diproses.
func (s *EventIngestService) Ingest(db *gorm.DB, env *dto.EventEnvelope) (*dto.IngestResult, error) {
	res := &dto.IngestResult{EventID: env.EventID, Status: dto.IngestApplied}

	err := db.Transaction(func(tx *gorm.DB) error {
		done, err := s.Ledger.AlreadyProcessed(tx, env.EventID)
		if err != nil {
			return err
		}
		if done {
			res.Status = dto.IngestDuplicate
			return nil
		}

		switch {
		case env.IsAttemptEvent():
			err = s.applyAttemptEvent(tx, env, res)
		case env.EventType == dto.EventQuizDeleted:
			err = s.applyQuizDeleted(tx, env, res)
		case env.EventType == dto.EventQuizMetaUpdated:
			err = s.applyMetaUpdated(tx, env, res)
		default:
			res.Status = dto.IngestSkipped
			res.Detail = "tipe event tidak dikenal"
		}
		if err != nil {
			return err
		}

		return s.Ledger.Claim(tx, env)
	})

	if err != nil {
		// Dua delivery paralel event yang sama: yang kalah bentrok di PK
		// ledger saat commit — itu duplicate yang sukses, bukan error.
		if IsUniqueViolation(err) {
			return &dto.IngestResult{EventID: env.EventID, Status: dto.IngestDuplicate}, nil
		}
		return nil, err
	}
	return res, nil
}

/* ===================================================================
   attempt_finalized / attempt_invalidated
=================================================================== */

func (s *EventIngestService) applyAttemptEvent(tx *gorm.DB, env *dto.EventEnvelope, res *dto.IngestResult) error {
	prev, err := s.Ledger.FindAudit(tx, *env.AttemptID)
	if err != nil {
		return err
	}
	if s.Ledger.IsStale(prev, env.AttemptVersion) {
		res.Status = dto.IngestStale
		res.Detail = "attempt_version lebih rendah dari mirror"
		return nil
	}
	if prev != nil && prev.AttemptAuditVersion == env.AttemptVersion {
		log.Printf("⚠️ anomali upstream: attempt %s version %d terlihat dua kali dengan event id berbeda (%s), last-write-wins",
			env.AttemptID, env.AttemptVersion, env.EventID)
	}

	if err := s.Ledger.UpsertAudit(tx, prev, env.ToAuditView()); err != nil {
		return err
	}

	// Kelas tidak dikenal: mirror tetap tercatat & event diklaim, tapi tidak
	// ada baris agregat yang bisa dibentuk.
	cls, err := schedModel.FindClass(tx, env.ClassID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("⚠️ event %s menunjuk class %s yang tidak dikenal, hanya mirror yang dicatat", env.EventID, env.ClassID)
			res.Status = dto.IngestSkipped
			res.Detail = "class tidak dikenal"
			return nil
		}
		return err
	}

	stat, err := s.Aggregate.EnsureStudentClassStat(tx, *env.StudentID, env.ClassID)
	if err != nil {
		return err
	}
	contribution, err := schedModel.ScheduleContribution(tx, env.ScheduleID)
	if err != nil {
		return err
	}

	changed := false
	switch env.EventType {
	case dto.EventAttemptFinalized:
		if env.HasScore() {
			cand := statsModel.CanonicalEntry{
				AttemptID:  *env.AttemptID,
				Score:      *env.Score,
				MaxScore:   *env.MaxScore,
				FinishedAt: env.FinishedAt,
				Subject:    env.SubjectOrEmpty(),
				Topic:      env.TopicOrEmpty(),
			}
			changed, err = s.Aggregate.ApplyCandidate(tx, stat, env.ScheduleID, cand, contribution)
		} else {
			// Finalize tanpa skor: mirror jadi invalid; kalau attempt ini
			// sedang canonical, slotnya diseleksi ulang.
			changed, err = s.reselectIfCanonical(tx, stat, env.ScheduleID, *env.AttemptID, contribution)
		}
	case dto.EventAttemptInvalidated:
		changed, err = s.reselectIfCanonical(tx, stat, env.ScheduleID, *env.AttemptID, contribution)
	}
	if err != nil {
		return err
	}

	// Absensi di-mark untuk finalize valid, terlepas attempt jadi canonical
	// atau tidak — hadir itu earned dan sticky.
	if env.EventType == dto.EventAttemptFinalized && env.HasScore() {
		at := time.Now()
		if env.FinishedAt != nil {
			at = *env.FinishedAt
		}
		marked, err := s.Attendance.MarkAttendance(stat, at, cls.Location(configs.DefaultTimezone))
		if err != nil {
			return err
		}
		changed = changed || marked
	}

	if !changed {
		res.Status = dto.IngestSkipped
		res.Detail = "tidak ada perubahan agregat"
		return nil
	}
	return s.Aggregate.WriteStat(tx, stat)
}

// reselectIfCanonical: hanya attempt yang sedang menduduki slot canonical
// yang memicu seleksi ulang; attempt non-canonical yang berubah status tidak
// berefek ke agregat.
func (s *EventIngestService) reselectIfCanonical(
	tx *gorm.DB,
	stat *statsModel.StudentClassStatModel,
	scheduleID, attemptID uuid.UUID,
	contribution float64,
) (bool, error) {
	canon, err := stat.CanonicalMap()
	if err != nil {
		return false, err
	}
	entry, ok := canon[scheduleID.String()]
	if !ok || entry.AttemptID != attemptID {
		return false, nil
	}
	return s.Aggregate.ReselectCanonical(tx, stat, scheduleID, contribution)
}

/* ===================================================================
   quiz_deleted — reversal penuh jadwal
=================================================================== */

func (s *EventIngestService) applyQuizDeleted(tx *gorm.DB, env *dto.EventEnvelope, res *dto.IngestResult) error {
	reversed, err := s.Contribution.ReverseSchedule(tx, env.ScheduleID)
	if err != nil {
		if errors.Is(err, schedService.ErrScheduleNotFound) {
			res.Status = dto.IngestSkipped
			res.Detail = "jadwal sudah tidak ada"
			return nil
		}
		return err
	}
	if err := tx.Where("class_schedule_id = ?", env.ScheduleID).
		Delete(&schedModel.ClassScheduleModel{}).Error; err != nil {
		return err
	}
	res.Status = dto.IngestReversed
	if reversed == 0 {
		res.Detail = "tidak ada siswa yang terdampak"
	}
	return nil
}

/* ===================================================================
   quiz_meta_updated — koreksi label subject/topic
=================================================================== */

func (s *EventIngestService) applyMetaUpdated(tx *gorm.DB, env *dto.EventEnvelope, res *dto.IngestResult) error {
	sched, err := schedModel.FindSchedule(tx, env.ScheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			res.Status = dto.IngestSkipped
			res.Detail = "jadwal tidak dikenal"
			return nil
		}
		return err
	}

	set := map[string]any{
		"class_schedule_version":    gorm.Expr("class_schedule_version + 1"),
		"class_schedule_updated_at": time.Now(),
	}
	if env.Subject != nil {
		set["class_schedule_subject"] = *env.Subject
	}
	if env.Topic != nil {
		set["class_schedule_topic"] = *env.Topic
	}
	if err := tx.Model(&schedModel.ClassScheduleModel{}).
		Where("class_schedule_id = ?", env.ScheduleID).
		Updates(set).Error; err != nil {
		return err
	}

	// Mirror ikut di-relabel supaya promosi next-best membawa label baru
	auditSet := map[string]any{"attempt_audit_updated_at": time.Now()}
	if env.Subject != nil {
		auditSet["attempt_audit_subject"] = *env.Subject
	}
	if env.Topic != nil {
		auditSet["attempt_audit_topic"] = *env.Topic
	}
	if err := tx.Model(&eventsModel.AttemptAuditModel{}).
		Where("attempt_audit_schedule_id = ?", env.ScheduleID).
		Updates(auditSet).Error; err != nil {
		return err
	}

	var rows []statsModel.StudentClassStatModel
	if err := tx.Where("student_class_stats_class_id = ?", sched.ClassScheduleClassID).
		Find(&rows).Error; err != nil {
		return err
	}

	corrected := 0
	for i := range rows {
		stat := &rows[i]
		changed, err := s.Aggregate.ApplyMetaCorrection(tx, stat, env.ScheduleID, env.Subject, env.Topic)
		if err != nil {
			return err
		}
		if !changed {
			continue
		}
		if err := s.Aggregate.WriteStat(tx, stat); err != nil {
			return err
		}
		corrected++
	}

	res.Status = dto.IngestCorrected
	if corrected == 0 {
		res.Detail = "tidak ada bucket yang bergeser"
	}
	return nil
}
