// file: internals/features/stats/student_stats/service/attendance_service.go
package service

import (
	"sort"
	"time"

	model "sekolahku_backend/internals/features/stats/student_stats/model"
)

const dayKeyLayout = "2006-01-02"

/* =============================================================================
   Absensi & streak.
   Absensi bersifat earned & sticky: sekali satu hari kalender (zona kelas)
   tercatat hadir, tidak pernah dicabut oleh edit/invalidasi belakangan —
   riwayat streak jangka panjang terlepas dari koreksi penilaian.
============================================================================= */

type AttendanceService struct{}

func NewAttendanceService() *AttendanceService { return &AttendanceService{} }

// MarkAttendance mencatat hari hadir dari finishedAt (dikonversi ke zona
// kelas) lalu menghitung ulang streak dari seluruh ledger. Return true bila
// ada hari baru. Caller yang persist (WriteStat) — tetap satu unit of work.
func (s *AttendanceService) MarkAttendance(stat *model.StudentClassStatModel, finishedAt time.Time, loc *time.Location) (bool, error) {
	days, err := stat.AttendanceMap()
	if err != nil {
		return false, err
	}

	key := finishedAt.In(loc).Format(dayKeyLayout)
	if days[key] {
		return false, nil
	}
	days[key] = true
	if err := stat.SetAttendanceMap(days); err != nil {
		return false, err
	}

	trailing, best, lastDay := computeStreaks(days)
	stat.StudentClassStatsStreakDays = trailing
	if best > stat.StudentClassStatsBestStreakDays {
		stat.StudentClassStatsBestStreakDays = best
	}
	if lastDay != "" {
		// Anchor tengah hari UTC supaya tidak flicker di batas zona waktu
		if d, err := time.Parse(dayKeyLayout, lastDay); err == nil {
			anchor := time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.UTC)
			stat.StudentClassStatsLastStreakDate = &anchor
		}
	}
	return true, nil
}

// computeStreaks: trailing = panjang run hari berurutan yang berakhir di
// hari terakhir; best = run terpanjang di mana pun dalam ledger.
func computeStreaks(days map[string]bool) (trailing, best int, lastDay string) {
	if len(days) == 0 {
		return 0, 0, ""
	}
	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	dates := make([]time.Time, 0, len(keys))
	for _, k := range keys {
		d, err := time.Parse(dayKeyLayout, k)
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}
	if len(dates) == 0 {
		return 0, 0, ""
	}

	run := 1
	best = 1
	for i := 1; i < len(dates); i++ {
		if dates[i].Sub(dates[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return run, best, keys[len(keys)-1]
}

// ProjectedStreak: aturan baca — streak berjalan dianggap 0 kecuali hari
// hadir terakhir adalah "hari ini" atau "kemarin" di zona kelas.
// best_streak_days tidak pernah diproyeksikan hilang.
func (s *AttendanceService) ProjectedStreak(stat *model.StudentClassStatModel, now time.Time, loc *time.Location) int {
	if stat.StudentClassStatsLastStreakDate == nil || stat.StudentClassStatsStreakDays == 0 {
		return 0
	}
	last := stat.StudentClassStatsLastStreakDate.In(time.UTC).Format(dayKeyLayout)
	today := now.In(loc).Format(dayKeyLayout)
	yesterday := now.In(loc).AddDate(0, 0, -1).Format(dayKeyLayout)
	if last == today || last == yesterday {
		return stat.StudentClassStatsStreakDays
	}
	return 0
}
