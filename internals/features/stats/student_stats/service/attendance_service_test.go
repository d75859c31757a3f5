// file: internals/features/stats/student_stats/service/attendance_service_test.go
package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	model "sekolahku_backend/internals/features/stats/student_stats/model"
	"sekolahku_backend/internals/features/stats/student_stats/service"
)

func newEmptyStat(t *testing.T) *model.StudentClassStatModel {
	t.Helper()
	stat := &model.StudentClassStatModel{}
	require.NoError(t, stat.SetAttendanceMap(map[string]bool{}))
	return stat
}

func mustLoc(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestMarkAttendance_UsesClassTimezoneForDayKey(t *testing.T) {
	svc := service.NewAttendanceService()
	stat := newEmptyStat(t)
	jakarta := mustLoc(t, "Asia/Jakarta")

	// 16:30 UTC = 23:30 WIB → masih 10 Maret
	marked, err := svc.MarkAttendance(stat, time.Date(2026, 3, 10, 16, 30, 0, 0, time.UTC), jakarta)
	require.NoError(t, err)
	require.True(t, marked)

	// 17:30 UTC = 00:30 WIB → sudah 11 Maret, hari baru
	marked, err = svc.MarkAttendance(stat, time.Date(2026, 3, 10, 17, 30, 0, 0, time.UTC), jakarta)
	require.NoError(t, err)
	require.True(t, marked)

	days, err := stat.AttendanceMap()
	require.NoError(t, err)
	require.True(t, days["2026-03-10"])
	require.True(t, days["2026-03-11"])
	require.Equal(t, 2, stat.StudentClassStatsStreakDays)
}

func TestMarkAttendance_SameDayIsSticky(t *testing.T) {
	svc := service.NewAttendanceService()
	stat := newEmptyStat(t)
	jakarta := mustLoc(t, "Asia/Jakarta")

	at := time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC)
	marked, err := svc.MarkAttendance(stat, at, jakarta)
	require.NoError(t, err)
	require.True(t, marked)

	marked, err = svc.MarkAttendance(stat, at.Add(3*time.Hour), jakarta)
	require.NoError(t, err)
	require.False(t, marked)

	days, err := stat.AttendanceMap()
	require.NoError(t, err)
	require.Len(t, days, 1)
}

func TestMarkAttendance_GapResetsTrailingKeepsBest(t *testing.T) {
	svc := service.NewAttendanceService()
	stat := newEmptyStat(t)
	jakarta := mustLoc(t, "Asia/Jakarta")

	base := time.Date(2026, 3, 2, 3, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := svc.MarkAttendance(stat, base.AddDate(0, 0, i), jakarta)
		require.NoError(t, err)
	}
	require.Equal(t, 3, stat.StudentClassStatsStreakDays)
	require.Equal(t, 3, stat.StudentClassStatsBestStreakDays)

	// Bolong dua hari → trailing mulai dari 1, best bertahan
	_, err := svc.MarkAttendance(stat, base.AddDate(0, 0, 5), jakarta)
	require.NoError(t, err)
	require.Equal(t, 1, stat.StudentClassStatsStreakDays)
	require.Equal(t, 3, stat.StudentClassStatsBestStreakDays)
}

func TestMarkAttendance_OutOfOrderDayFillsStreak(t *testing.T) {
	svc := service.NewAttendanceService()
	stat := newEmptyStat(t)
	jakarta := mustLoc(t, "Asia/Jakarta")

	base := time.Date(2026, 3, 2, 3, 0, 0, 0, time.UTC)
	_, err := svc.MarkAttendance(stat, base, jakarta)
	require.NoError(t, err)
	_, err = svc.MarkAttendance(stat, base.AddDate(0, 0, 2), jakarta)
	require.NoError(t, err)
	require.Equal(t, 1, stat.StudentClassStatsStreakDays)

	// Event hari tengah datang terlambat: streak dihitung ulang dari ledger
	_, err = svc.MarkAttendance(stat, base.AddDate(0, 0, 1), jakarta)
	require.NoError(t, err)
	require.Equal(t, 3, stat.StudentClassStatsStreakDays)
	require.Equal(t, 3, stat.StudentClassStatsBestStreakDays)
}

func TestProjectedStreak_ZeroUnlessRecent(t *testing.T) {
	svc := service.NewAttendanceService()
	stat := newEmptyStat(t)
	jakarta := mustLoc(t, "Asia/Jakarta")

	at := time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC)
	_, err := svc.MarkAttendance(stat, at, jakarta)
	require.NoError(t, err)

	// Hari yang sama & sehari setelahnya: streak masih hidup
	require.Equal(t, 1, svc.ProjectedStreak(stat, at.Add(6*time.Hour), jakarta))
	require.Equal(t, 1, svc.ProjectedStreak(stat, at.AddDate(0, 0, 1), jakarta))

	// Lewat dua hari: tampil 0, kolom tersimpan tidak berubah
	require.Equal(t, 0, svc.ProjectedStreak(stat, at.AddDate(0, 0, 2), jakarta))
	require.Equal(t, 1, stat.StudentClassStatsStreakDays)
}

func TestProjectedStreak_EmptyStat(t *testing.T) {
	svc := service.NewAttendanceService()
	stat := newEmptyStat(t)
	require.Equal(t, 0, svc.ProjectedStreak(stat, time.Now(), time.UTC))
}
