// file: internals/features/stats/events/service/event_ingest_service_test.go
package service_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/stats/events/dto"
	eventsModel "sekolahku_backend/internals/features/stats/events/model"
	"sekolahku_backend/internals/features/stats/events/service"
	schedModel "sekolahku_backend/internals/features/stats/schedules/model"
	statsModel "sekolahku_backend/internals/features/stats/student_stats/model"
	"sekolahku_backend/internals/features/stats/testutil"
)

func fptr(v float64) *float64     { return &v }
func sptr(v string) *string       { return &v }
func uptr(v uuid.UUID) *uuid.UUID { return &v }
func tptr(v time.Time) *time.Time { return &v }

func finalizeEnv(classID, scheduleID, studentID, attemptID uuid.UUID, version int64, score, max float64, finishedAt time.Time) *dto.EventEnvelope {
	return &dto.EventEnvelope{
		EventID:        uuid.New(),
		EventType:      dto.EventAttemptFinalized,
		ClassID:        classID,
		ScheduleID:     scheduleID,
		AttemptID:      uptr(attemptID),
		StudentID:      uptr(studentID),
		AttemptVersion: version,
		Score:          fptr(score),
		MaxScore:       fptr(max),
		FinishedAt:     tptr(finishedAt),
		Subject:        sptr("Matematika"),
		Topic:          sptr("Aljabar"),
	}
}

func invalidateEnv(classID, scheduleID, studentID, attemptID uuid.UUID, version int64) *dto.EventEnvelope {
	return &dto.EventEnvelope{
		EventID:        uuid.New(),
		EventType:      dto.EventAttemptInvalidated,
		ClassID:        classID,
		ScheduleID:     scheduleID,
		AttemptID:      uptr(attemptID),
		StudentID:      uptr(studentID),
		AttemptVersion: version,
	}
}

func fetchStat(t *testing.T, db *gorm.DB, studentID, classID uuid.UUID) *statsModel.StudentClassStatModel {
	t.Helper()
	var stat statsModel.StudentClassStatModel
	err := db.Where("student_class_stats_student_id = ? AND student_class_stats_class_id = ?", studentID, classID).
		First(&stat).Error
	require.NoError(t, err)
	return &stat
}

func fetchScheduleStat(t *testing.T, db *gorm.DB, scheduleID uuid.UUID) *statsModel.ScheduleStatModel {
	t.Helper()
	var row statsModel.ScheduleStatModel
	err := db.Where("schedule_stats_schedule_id = ?", scheduleID).First(&row).Error
	require.NoError(t, err)
	return &row
}

func claimCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&eventsModel.ProcessedEventModel{}).Count(&n).Error)
	return n
}

var testFinishedAt = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

func TestIngest_FirstFinalizeBuildsAggregates(t *testing.T) {
	db := testutil.NewTestDB(t)
	cls := testutil.SeedClass(t, db, "Asia/Jakarta")
	sched := testutil.SeedSchedule(t, db, cls.ClassID, 0.4, "Matematika", "Aljabar")
	svc := service.NewEventIngestService()
	student := uuid.New()

	res, err := svc.Ingest(db, finalizeEnv(cls.ClassID, sched.ClassScheduleID, student, uuid.New(), 1, 80, 100, testFinishedAt))
	require.NoError(t, err)
	require.Equal(t, dto.IngestApplied, res.Status)

	stat := fetchStat(t, db, student, cls.ClassID)
	require.InDelta(t, 80, stat.StudentClassStatsSumScore, 1e-9)
	require.InDelta(t, 100, stat.StudentClassStatsSumMax, 1e-9)
	require.Equal(t, 1, stat.StudentClassStatsParticipationCount)
	require.InDelta(t, 0.8*0.4, stat.StudentClassStatsOverallScore, 1e-9)

	subjects, err := stat.SubjectMap()
	require.NoError(t, err)
	require.InDelta(t, 80, subjects["Matematika"].SumScore, 1e-9)
	require.Equal(t, 1, subjects["Matematika"].Attempts)

	require.Equal(t, 1, stat.StudentClassStatsStreakDays)
	require.Equal(t, 1, stat.StudentClassStatsBestStreakDays)

	ss := fetchScheduleStat(t, db, sched.ClassScheduleID)
	require.Equal(t, 1, ss.ScheduleStatsParticipants)
	require.InDelta(t, 80, ss.ScheduleStatsSumScore, 1e-9)

	require.EqualValues(t, 1, claimCount(t, db))
}

func TestIngest_SameEventIDIsDuplicateNoop(t *testing.T) {
	db := testutil.NewTestDB(t)
	cls := testutil.SeedClass(t, db, "Asia/Jakarta")
	sched := testutil.SeedSchedule(t, db, cls.ClassID, 1, "Matematika", "Aljabar")
	svc := service.NewEventIngestService()
	student := uuid.New()

	env := finalizeEnv(cls.ClassID, sched.ClassScheduleID, student, uuid.New(), 1, 80, 100, testFinishedAt)
	_, err := svc.Ingest(db, env)
	require.NoError(t, err)
	before := fetchStat(t, db, student, cls.ClassID)

	res, err := svc.Ingest(db, env)
	require.NoError(t, err)
	require.Equal(t, dto.IngestDuplicate, res.Status)

	after := fetchStat(t, db, student, cls.ClassID)
	require.Equal(t, before.StudentClassStatsVersion, after.StudentClassStatsVersion)
	require.InDelta(t, before.StudentClassStatsSumScore, after.StudentClassStatsSumScore, 1e-9)
	require.EqualValues(t, 1, claimCount(t, db))
}

func TestIngest_HigherScoreRetryReplacesCanonical(t *testing.T) {
	db := testutil.NewTestDB(t)
	cls := testutil.SeedClass(t, db, "Asia/Jakarta")
	sched := testutil.SeedSchedule(t, db, cls.ClassID, 0.5, "Matematika", "Aljabar")
	svc := service.NewEventIngestService()
	student := uuid.New()

	_, err := svc.Ingest(db, finalizeEnv(cls.ClassID, sched.ClassScheduleID, student, uuid.New(), 1, 80, 100, testFinishedAt))
	require.NoError(t, err)

	attemptB := uuid.New()
	res, err := svc.Ingest(db, finalizeEnv(cls.ClassID, sched.ClassScheduleID, student, attemptB, 1, 90, 100, testFinishedAt))
	require.NoError(t, err)
	require.Equal(t, dto.IngestApplied, res.Status)

	stat := fetchStat(t, db, student, cls.ClassID)
	require.InDelta(t, 90, stat.StudentClassStatsSumScore, 1e-9)
	require.Equal(t, 1, stat.StudentClassStatsParticipationCount)
	require.InDelta(t, 0.9*0.5, stat.StudentClassStatsOverallScore, 1e-9)

	canon, err := stat.CanonicalMap()
	require.NoError(t, err)
	require.Equal(t, attemptB, canon[sched.ClassScheduleID.String()].AttemptID)

	ss := fetchScheduleStat(t, db, sched.ClassScheduleID)
	require.Equal(t, 1, ss.ScheduleStatsParticipants)
	require.InDelta(t, 90, ss.ScheduleStatsSumScore, 1e-9)
}

func TestIngest_LowerScoreRetryIsNoop(t *testing.T) {
	db := testutil.NewTestDB(t)
	cls := testutil.SeedClass(t, db, "Asia/Jakarta")
	sched := testutil.SeedSchedule(t, db, cls.ClassID, 1, "Matematika", "Aljabar")
	svc := service.NewEventIngestService()
	student := uuid.New()
	attemptA := uuid.New()

	_, err := svc.Ingest(db, finalizeEnv(cls.ClassID, sched.ClassScheduleID, student, attemptA, 1, 80, 100, testFinishedAt))
	require.NoError(t, err)

	res, err := svc.Ingest(db, finalizeEnv(cls.ClassID, sched.ClassScheduleID, student, uuid.New(), 1, 70, 100, testFinishedAt))
	require.NoError(t, err)
	require.Equal(t, dto.IngestSkipped, res.Status)

	stat := fetchStat(t, db, student, cls.ClassID)
	require.InDelta(t, 80, stat.StudentClassStatsSumScore, 1e-9)
	canon, err := stat.CanonicalMap()
	require.NoError(t, err)
	require.Equal(t, attemptA, canon[sched.ClassScheduleID.String()].AttemptID)
	// Event tanpa efek tetap diklaim
	require.EqualValues(t, 2, claimCount(t, db))
}

func TestIngest_EqualScoreKeepsIncumbent(t *testing.T) {
	db := testutil.NewTestDB(t)
	cls := testutil.SeedClass(t, db, "Asia/Jakarta")
	sched := testutil.SeedSchedule(t, db, cls.ClassID, 1, "Matematika", "Aljabar")
	svc := service.NewEventIngestService()
	student := uuid.New()
	attemptA := uuid.New()

	_, err := svc.Ingest(db, finalizeEnv(cls.ClassID, sched.ClassScheduleID, student, attemptA, 1, 85, 100, testFinishedAt))
	require.NoError(t, err)
	_, err = svc.Ingest(db, finalizeEnv(cls.ClassID, sched.ClassScheduleID, student, uuid.New(), 1, 85, 100, testFinishedAt.Add(time.Hour)))
	require.NoError(t, err)

	stat := fetchStat(t, db, student, cls.ClassID)
	canon, err := stat.CanonicalMap()
	require.NoError(t, err)
	require.Equal(t, attemptA, canon[sched.ClassScheduleID.String()].AttemptID)
	require.Equal(t, 1, stat.StudentClassStatsParticipationCount)
}

func TestIngest_StaleVersionIsDroppedButClaimed(t *testing.T) {
	db := testutil.NewTestDB(t)
	cls := testutil.SeedClass(t, db, "Asia/Jakarta")
	sched := testutil.SeedSchedule(t, db, cls.ClassID, 1, "Matematika", "Aljabar")
	svc := service.NewEventIngestService()
	student := uuid.New()
	attemptA := uuid.New()

	_, err := svc.Ingest(db, finalizeEnv(cls.ClassID, sched.ClassScheduleID, student, attemptA, 3, 95, 100, testFinishedAt))
	require.NoError(t, err)

	res, err := svc.Ingest(db, finalizeEnv(cls.ClassID, sched.ClassScheduleID, student, attemptA, 2, 50, 100, testFinishedAt))
	require.NoError(t, err)
	require.Equal(t, dto.IngestStale, res.Status)

	stat := fetchStat(t, db, student, cls.ClassID)
	require.InDelta(t, 95, stat.StudentClassStatsSumScore, 1e-9)

	var audit eventsModel.AttemptAuditModel
	require.NoError(t, db.Where("attempt_audit_attempt_id = ?", attemptA).First(&audit).Error)
	require.EqualValues(t, 3, audit.AttemptAuditVersion)
	require.EqualValues(t, 2, claimCount(t, db))
}

func TestIngest_RescoreOfCanonicalAttemptCanLowerScore(t *testing.T) {
	db := testutil.NewTestDB(t)
	cls := testutil.SeedClass(t, db, "Asia/Jakarta")
	sched := testutil.SeedSchedule(t, db, cls.ClassID, 1, "Matematika", "Aljabar")
	svc := service.NewEventIngestService()
	student := uuid.New()
	attemptA := uuid.New()

	_, err := svc.Ingest(db, finalizeEnv(cls.ClassID, sched.ClassScheduleID, student, attemptA, 1, 90, 100, testFinishedAt))
	require.NoError(t, err)

	// Edit attempt yang sedang canonical: skor turun harus ikut turun
	res, err := svc.Ingest(db, finalizeEnv(cls.ClassID, sched.ClassScheduleID, student, attemptA, 2, 60, 100, testFinishedAt))
	require.NoError(t, err)
	require.Equal(t, dto.IngestApplied, res.Status)

	stat := fetchStat(t, db, student, cls.ClassID)
	require.InDelta(t, 60, stat.StudentClassStatsSumScore, 1e-9)
	require.InDelta(t, 0.6, stat.StudentClassStatsOverallScore, 1e-9)
	require.Equal(t, 1, stat.StudentClassStatsParticipationCount)
}

func TestIngest_InvalidationPromotesNextBest(t *testing.T) {
	db := testutil.NewTestDB(t)
	cls := testutil.SeedClass(t, db, "Asia/Jakarta")
	sched := testutil.SeedSchedule(t, db, cls.ClassID, 1, "Matematika", "Aljabar")
	svc := service.NewEventIngestService()
	student := uuid.New()
	attemptA, attemptB := uuid.New(), uuid.New()

	_, err := svc.Ingest(db, finalizeEnv(cls.ClassID, sched.ClassScheduleID, student, attemptA, 1, 90, 100, testFinishedAt))
	require.NoError(t, err)
	_, err = svc.Ingest(db, finalizeEnv(cls.ClassID, sched.ClassScheduleID, student, attemptB, 1, 80, 100, testFinishedAt))
	require.NoError(t, err)

	res, err := svc.Ingest(db, invalidateEnv(cls.ClassID, sched.ClassScheduleID, student, attemptA, 2))
	require.NoError(t, err)
	require.Equal(t, dto.IngestApplied, res.Status)

	stat := fetchStat(t, db, student, cls.ClassID)
	canon, err := stat.CanonicalMap()
	require.NoError(t, err)
	require.Equal(t, attemptB, canon[sched.ClassScheduleID.String()].AttemptID)
	require.InDelta(t, 80, stat.StudentClassStatsSumScore, 1e-9)
	require.Equal(t, 1, stat.StudentClassStatsParticipationCount)
}

func TestIngest_InvalidationOfLastAttemptClearsSlotKeepsAttendance(t *testing.T) {
	db := testutil.NewTestDB(t)
	cls := testutil.SeedClass(t, db, "Asia/Jakarta")
	sched := testutil.SeedSchedule(t, db, cls.ClassID, 1, "Matematika", "Aljabar")
	svc := service.NewEventIngestService()
	student := uuid.New()
	attemptA := uuid.New()

	_, err := svc.Ingest(db, finalizeEnv(cls.ClassID, sched.ClassScheduleID, student, attemptA, 1, 90, 100, testFinishedAt))
	require.NoError(t, err)

	_, err = svc.Ingest(db, invalidateEnv(cls.ClassID, sched.ClassScheduleID, student, attemptA, 2))
	require.NoError(t, err)

	stat := fetchStat(t, db, student, cls.ClassID)
	require.InDelta(t, 0, stat.StudentClassStatsSumScore, 1e-9)
	require.InDelta(t, 0, stat.StudentClassStatsOverallScore, 1e-9)
	require.Equal(t, 0, stat.StudentClassStatsParticipationCount)

	subjects, err := stat.SubjectMap()
	require.NoError(t, err)
	require.Empty(t, subjects)

	// Hari hadir sudah earned, tidak ikut dicabut
	days, err := stat.AttendanceMap()
	require.NoError(t, err)
	require.Len(t, days, 1)
	require.Equal(t, 1, stat.StudentClassStatsBestStreakDays)

	ss := fetchScheduleStat(t, db, sched.ClassScheduleID)
	require.Equal(t, 0, ss.ScheduleStatsParticipants)
}

func TestIngest_InvalidationOfNonCanonicalIsNoop(t *testing.T) {
	db := testutil.NewTestDB(t)
	cls := testutil.SeedClass(t, db, "Asia/Jakarta")
	sched := testutil.SeedSchedule(t, db, cls.ClassID, 1, "Matematika", "Aljabar")
	svc := service.NewEventIngestService()
	student := uuid.New()
	attemptA, attemptB := uuid.New(), uuid.New()

	_, err := svc.Ingest(db, finalizeEnv(cls.ClassID, sched.ClassScheduleID, student, attemptA, 1, 90, 100, testFinishedAt))
	require.NoError(t, err)
	_, err = svc.Ingest(db, finalizeEnv(cls.ClassID, sched.ClassScheduleID, student, attemptB, 1, 80, 100, testFinishedAt))
	require.NoError(t, err)

	res, err := svc.Ingest(db, invalidateEnv(cls.ClassID, sched.ClassScheduleID, student, attemptB, 2))
	require.NoError(t, err)
	require.Equal(t, dto.IngestSkipped, res.Status)

	stat := fetchStat(t, db, student, cls.ClassID)
	require.InDelta(t, 90, stat.StudentClassStatsSumScore, 1e-9)
}

func TestIngest_UnknownClassSkippedButClaimed(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := service.NewEventIngestService()

	env := finalizeEnv(uuid.New(), uuid.New(), uuid.New(), uuid.New(), 1, 80, 100, testFinishedAt)
	res, err := svc.Ingest(db, env)
	require.NoError(t, err)
	require.Equal(t, dto.IngestSkipped, res.Status)

	// Mirror tetap tercatat dan event diklaim — redelivery jadi duplicate
	var n int64
	require.NoError(t, db.Model(&eventsModel.AttemptAuditModel{}).Count(&n).Error)
	require.EqualValues(t, 1, n)
	require.EqualValues(t, 1, claimCount(t, db))

	res, err = svc.Ingest(db, env)
	require.NoError(t, err)
	require.Equal(t, dto.IngestDuplicate, res.Status)
}

func TestIngest_ScorelessFinalizeNeverBecomesCanonical(t *testing.T) {
	db := testutil.NewTestDB(t)
	cls := testutil.SeedClass(t, db, "Asia/Jakarta")
	sched := testutil.SeedSchedule(t, db, cls.ClassID, 1, "Matematika", "Aljabar")
	svc := service.NewEventIngestService()
	student := uuid.New()
	attemptA := uuid.New()

	env := finalizeEnv(cls.ClassID, sched.ClassScheduleID, student, attemptA, 1, 0, 0, testFinishedAt)
	env.Score = nil
	env.MaxScore = nil
	res, err := svc.Ingest(db, env)
	require.NoError(t, err)
	require.Equal(t, dto.IngestSkipped, res.Status)

	var audit eventsModel.AttemptAuditModel
	require.NoError(t, db.Where("attempt_audit_attempt_id = ?", attemptA).First(&audit).Error)
	require.False(t, audit.AttemptAuditValid)

	stat := fetchStat(t, db, student, cls.ClassID)
	require.Equal(t, 0, stat.StudentClassStatsParticipationCount)
	days, err := stat.AttendanceMap()
	require.NoError(t, err)
	require.Empty(t, days)
}

func TestIngest_EqualVersionDifferentEventLastWriteWins(t *testing.T) {
	db := testutil.NewTestDB(t)
	cls := testutil.SeedClass(t, db, "Asia/Jakarta")
	sched := testutil.SeedSchedule(t, db, cls.ClassID, 1, "Matematika", "Aljabar")
	svc := service.NewEventIngestService()
	student := uuid.New()
	attemptA := uuid.New()

	_, err := svc.Ingest(db, finalizeEnv(cls.ClassID, sched.ClassScheduleID, student, attemptA, 2, 80, 100, testFinishedAt))
	require.NoError(t, err)
	_, err = svc.Ingest(db, finalizeEnv(cls.ClassID, sched.ClassScheduleID, student, attemptA, 2, 85, 100, testFinishedAt))
	require.NoError(t, err)

	stat := fetchStat(t, db, student, cls.ClassID)
	require.InDelta(t, 85, stat.StudentClassStatsSumScore, 1e-9)
}

func TestIngest_QuizDeletedReversesAllStudents(t *testing.T) {
	db := testutil.NewTestDB(t)
	cls := testutil.SeedClass(t, db, "Asia/Jakarta")
	sched := testutil.SeedSchedule(t, db, cls.ClassID, 0.5, "Matematika", "Aljabar")
	other := testutil.SeedSchedule(t, db, cls.ClassID, 0.5, "Fisika", "Gerak")
	svc := service.NewEventIngestService()
	s1, s2 := uuid.New(), uuid.New()

	_, err := svc.Ingest(db, finalizeEnv(cls.ClassID, sched.ClassScheduleID, s1, uuid.New(), 1, 80, 100, testFinishedAt))
	require.NoError(t, err)
	_, err = svc.Ingest(db, finalizeEnv(cls.ClassID, sched.ClassScheduleID, s2, uuid.New(), 1, 60, 100, testFinishedAt))
	require.NoError(t, err)
	envOther := finalizeEnv(cls.ClassID, other.ClassScheduleID, s1, uuid.New(), 1, 70, 100, testFinishedAt)
	envOther.Subject = sptr("Fisika")
	envOther.Topic = sptr("Gerak")
	_, err = svc.Ingest(db, envOther)
	require.NoError(t, err)

	res, err := svc.Ingest(db, &dto.EventEnvelope{
		EventID:    uuid.New(),
		EventType:  dto.EventQuizDeleted,
		ClassID:    cls.ClassID,
		ScheduleID: sched.ClassScheduleID,
	})
	require.NoError(t, err)
	require.Equal(t, dto.IngestReversed, res.Status)

	// Jadwal lain tidak tersentuh
	st1 := fetchStat(t, db, s1, cls.ClassID)
	require.InDelta(t, 70, st1.StudentClassStatsSumScore, 1e-9)
	require.Equal(t, 1, st1.StudentClassStatsParticipationCount)
	require.InDelta(t, 0.7*0.5, st1.StudentClassStatsOverallScore, 1e-9)

	st2 := fetchStat(t, db, s2, cls.ClassID)
	require.Equal(t, 0, st2.StudentClassStatsParticipationCount)

	// Absensi tetap
	days, err := st2.AttendanceMap()
	require.NoError(t, err)
	require.Len(t, days, 1)

	var n int64
	require.NoError(t, db.Model(&statsModel.ScheduleStatModel{}).
		Where("schedule_stats_schedule_id = ?", sched.ClassScheduleID).Count(&n).Error)
	require.Zero(t, n)
	require.NoError(t, db.Model(&schedModel.ClassScheduleModel{}).
		Where("class_schedule_id = ?", sched.ClassScheduleID).Count(&n).Error)
	require.Zero(t, n)
}

func TestIngest_QuizMetaUpdatedMovesBuckets(t *testing.T) {
	db := testutil.NewTestDB(t)
	cls := testutil.SeedClass(t, db, "Asia/Jakarta")
	sched := testutil.SeedSchedule(t, db, cls.ClassID, 1, "Matematika", "Aljabar")
	svc := service.NewEventIngestService()
	student := uuid.New()

	_, err := svc.Ingest(db, finalizeEnv(cls.ClassID, sched.ClassScheduleID, student, uuid.New(), 1, 80, 100, testFinishedAt))
	require.NoError(t, err)
	before := fetchStat(t, db, student, cls.ClassID)

	res, err := svc.Ingest(db, &dto.EventEnvelope{
		EventID:    uuid.New(),
		EventType:  dto.EventQuizMetaUpdated,
		ClassID:    cls.ClassID,
		ScheduleID: sched.ClassScheduleID,
		Subject:    sptr("Fisika"),
	})
	require.NoError(t, err)
	require.Equal(t, dto.IngestCorrected, res.Status)

	stat := fetchStat(t, db, student, cls.ClassID)
	subjects, err := stat.SubjectMap()
	require.NoError(t, err)
	require.NotContains(t, subjects, "Matematika")
	require.InDelta(t, 80, subjects["Fisika"].SumScore, 1e-9)

	// Skor & overall tidak bergeser — murni relabel
	require.InDelta(t, before.StudentClassStatsSumScore, stat.StudentClassStatsSumScore, 1e-9)
	require.InDelta(t, before.StudentClassStatsOverallScore, stat.StudentClassStatsOverallScore, 1e-9)

	canon, err := stat.CanonicalMap()
	require.NoError(t, err)
	require.Equal(t, "Fisika", canon[sched.ClassScheduleID.String()].Subject)

	sc, err := schedModel.FindSchedule(db, sched.ClassScheduleID)
	require.NoError(t, err)
	require.Equal(t, "Fisika", sc.ClassScheduleSubject)

	var audit eventsModel.AttemptAuditModel
	require.NoError(t, db.Where("attempt_audit_schedule_id = ?", sched.ClassScheduleID).First(&audit).Error)
	require.Equal(t, "Fisika", audit.AttemptAuditSubject)
	require.Equal(t, "Aljabar", audit.AttemptAuditTopic)
}

func TestCheckSemantics_AttemptEventRequiresIdentity(t *testing.T) {
	env := &dto.EventEnvelope{
		EventID:    uuid.New(),
		EventType:  dto.EventAttemptFinalized,
		ClassID:    uuid.New(),
		ScheduleID: uuid.New(),
	}
	errs := env.CheckSemantics()
	require.Contains(t, errs, "attempt_id")
	require.Contains(t, errs, "student_id")
	require.Contains(t, errs, "attempt_version")
}

func TestCheckSemantics_MetaUpdateNeedsAtLeastOneLabel(t *testing.T) {
	env := &dto.EventEnvelope{
		EventID:    uuid.New(),
		EventType:  dto.EventQuizMetaUpdated,
		ClassID:    uuid.New(),
		ScheduleID: uuid.New(),
	}
	require.NotNil(t, env.CheckSemantics())

	env.Topic = sptr("Aljabar")
	require.Nil(t, env.CheckSemantics())
}
