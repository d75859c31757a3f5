// file: internals/features/stats/schedules/service/contribution_service_test.go
package service_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	eventDto "sekolahku_backend/internals/features/stats/events/dto"
	eventService "sekolahku_backend/internals/features/stats/events/service"
	schedModel "sekolahku_backend/internals/features/stats/schedules/model"
	"sekolahku_backend/internals/features/stats/schedules/service"
	statsModel "sekolahku_backend/internals/features/stats/student_stats/model"
	"sekolahku_backend/internals/features/stats/testutil"
)

var finishedAt = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

// ingestFinalize menanam satu attempt canonical lewat jalur ingest beneran,
// supaya state awal test identik dengan state produksi.
func ingestFinalize(t *testing.T, db *gorm.DB, classID, scheduleID, studentID uuid.UUID, score, max float64) {
	t.Helper()
	attemptID := uuid.New()
	res, err := eventService.NewEventIngestService().Ingest(db, &eventDto.EventEnvelope{
		EventID:        uuid.New(),
		EventType:      eventDto.EventAttemptFinalized,
		ClassID:        classID,
		ScheduleID:     scheduleID,
		AttemptID:      &attemptID,
		StudentID:      &studentID,
		AttemptVersion: 1,
		Score:          &score,
		MaxScore:       &max,
		FinishedAt:     &finishedAt,
	})
	require.NoError(t, err)
	require.Equal(t, eventDto.IngestApplied, res.Status)
}

func getStat(t *testing.T, db *gorm.DB, studentID uuid.UUID) *statsModel.StudentClassStatModel {
	t.Helper()
	var stat statsModel.StudentClassStatModel
	require.NoError(t, db.Where("student_class_stats_student_id = ?", studentID).First(&stat).Error)
	return &stat
}

func TestReweightSchedule_ShiftsOverallForCanonicalHolders(t *testing.T) {
	db := testutil.NewTestDB(t)
	cls := testutil.SeedClass(t, db, "Asia/Jakarta")
	sched := testutil.SeedSchedule(t, db, cls.ClassID, 0.4, "Matematika", "Aljabar")
	svc := service.NewContributionService()

	s1, s2 := uuid.New(), uuid.New()
	ingestFinalize(t, db, cls.ClassID, sched.ClassScheduleID, s1, 80, 100)
	ingestFinalize(t, db, cls.ClassID, sched.ClassScheduleID, s2, 50, 100)

	adjusted, err := svc.ReweightSchedule(db, sched.ClassScheduleID, 1.0)
	require.NoError(t, err)
	require.Equal(t, 2, adjusted)

	require.InDelta(t, 0.8, getStat(t, db, s1).StudentClassStatsOverallScore, 1e-9)
	require.InDelta(t, 0.5, getStat(t, db, s2).StudentClassStatsOverallScore, 1e-9)

	// sums & participation tidak bergeser — reweight murni soal bobot
	st := getStat(t, db, s1)
	require.InDelta(t, 80, st.StudentClassStatsSumScore, 1e-9)
	require.Equal(t, 1, st.StudentClassStatsParticipationCount)

	sc, err := schedModel.FindSchedule(db, sched.ClassScheduleID)
	require.NoError(t, err)
	require.InDelta(t, 1.0, sc.ClassScheduleContribution, 1e-9)
}

func TestReweightSchedule_SameWeightIsNoop(t *testing.T) {
	db := testutil.NewTestDB(t)
	cls := testutil.SeedClass(t, db, "Asia/Jakarta")
	sched := testutil.SeedSchedule(t, db, cls.ClassID, 0.4, "Matematika", "Aljabar")
	svc := service.NewContributionService()

	s1 := uuid.New()
	ingestFinalize(t, db, cls.ClassID, sched.ClassScheduleID, s1, 80, 100)
	before := getStat(t, db, s1)

	adjusted, err := svc.ReweightSchedule(db, sched.ClassScheduleID, 0.4)
	require.NoError(t, err)
	require.Zero(t, adjusted)
	require.Equal(t, before.StudentClassStatsVersion, getStat(t, db, s1).StudentClassStatsVersion)
}

func TestReweightSchedule_SkipsStudentsWithoutCanonical(t *testing.T) {
	db := testutil.NewTestDB(t)
	cls := testutil.SeedClass(t, db, "Asia/Jakarta")
	schedA := testutil.SeedSchedule(t, db, cls.ClassID, 0.4, "Matematika", "Aljabar")
	schedB := testutil.SeedSchedule(t, db, cls.ClassID, 0.6, "Fisika", "Gerak")
	svc := service.NewContributionService()

	s1, s2 := uuid.New(), uuid.New()
	ingestFinalize(t, db, cls.ClassID, schedA.ClassScheduleID, s1, 80, 100)
	ingestFinalize(t, db, cls.ClassID, schedB.ClassScheduleID, s2, 90, 100)

	adjusted, err := svc.ReweightSchedule(db, schedA.ClassScheduleID, 0.8)
	require.NoError(t, err)
	require.Equal(t, 1, adjusted)

	// s2 hanya pegang jadwal B, tidak tersentuh
	require.InDelta(t, 0.9*0.6, getStat(t, db, s2).StudentClassStatsOverallScore, 1e-9)
}

func TestReweightSchedule_UnknownScheduleFails(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := service.NewContributionService()

	_, err := svc.ReweightSchedule(db, uuid.New(), 1.0)
	require.ErrorIs(t, err, service.ErrScheduleNotFound)
}

func TestRemoveSchedule_ReversesAndDeletesRoster(t *testing.T) {
	db := testutil.NewTestDB(t)
	cls := testutil.SeedClass(t, db, "Asia/Jakarta")
	sched := testutil.SeedSchedule(t, db, cls.ClassID, 0.5, "Matematika", "Aljabar")
	svc := service.NewContributionService()

	s1 := uuid.New()
	ingestFinalize(t, db, cls.ClassID, sched.ClassScheduleID, s1, 80, 100)

	reversed, err := svc.RemoveSchedule(db, sched.ClassScheduleID)
	require.NoError(t, err)
	require.Equal(t, 1, reversed)

	st := getStat(t, db, s1)
	require.InDelta(t, 0, st.StudentClassStatsSumScore, 1e-9)
	require.InDelta(t, 0, st.StudentClassStatsOverallScore, 1e-9)
	require.Equal(t, 0, st.StudentClassStatsParticipationCount)

	// Absensi earned, tidak ikut reversal
	days, err := st.AttendanceMap()
	require.NoError(t, err)
	require.Len(t, days, 1)
	require.Equal(t, 1, st.StudentClassStatsBestStreakDays)

	var n int64
	require.NoError(t, db.Model(&schedModel.ClassScheduleModel{}).
		Where("class_schedule_id = ?", sched.ClassScheduleID).Count(&n).Error)
	require.Zero(t, n)
	require.NoError(t, db.Model(&statsModel.ScheduleStatModel{}).
		Where("schedule_stats_schedule_id = ?", sched.ClassScheduleID).Count(&n).Error)
	require.Zero(t, n)
}

func TestRemoveSchedule_UnknownScheduleFails(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := service.NewContributionService()

	_, err := svc.RemoveSchedule(db, uuid.New())
	require.ErrorIs(t, err, service.ErrScheduleNotFound)
}
