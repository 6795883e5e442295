package services

import (
	"sort"
	"time"

	"focusFlowAPI/utils"
)

// StreakMetrics is the result of one calculation pass over an activity log.
type StreakMetrics struct {
	CurrentStreak    int        `json:"currentStreak"`
	LongestStreak    int        `json:"longestStreak"`
	StreakStartDate  *time.Time `json:"streakStartDate,omitempty"`
	LastActivityDate *time.Time `json:"lastActivityDate,omitempty"`
}

// ComputeStreak derives streak metrics from a set of streak-eligible activity
// days. It is a pure function: "today" is caller-resolved (see
// utils.ResolveToday) and no clock is consulted here.
//
// Current streak: walk backward from today, with a one-day grace period when
// today has no record yet. A day in frozenDays keeps the walk alive without
// contributing to the count; frozen days never affect the longest-streak scan,
// which is a plain consecutive-run pass over the historical activity days.
func ComputeStreak(activityDays, frozenDays []time.Time, today time.Time) StreakMetrics {
	var m StreakMetrics

	active := make(map[string]bool, len(activityDays))
	days := make([]time.Time, 0, len(activityDays))
	for _, d := range activityDays {
		day := utils.Day(d)
		key := utils.DayKey(day)
		if !active[key] {
			active[key] = true
			days = append(days, day)
		}
	}
	frozen := make(map[string]bool, len(frozenDays))
	for _, d := range frozenDays {
		frozen[utils.DayKey(utils.Day(d))] = true
	}

	if len(days) == 0 {
		return m
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	last := days[len(days)-1]
	m.LastActivityDate = &last

	// Current streak: find the anchor day. Today not yet logged is not a
	// breaking condition; yesterday still counts as an open streak.
	today = utils.Day(today)
	yesterday := today.AddDate(0, 0, -1)

	var anchor time.Time
	switch {
	case active[utils.DayKey(today)] || frozen[utils.DayKey(today)]:
		anchor = today
	case active[utils.DayKey(yesterday)] || frozen[utils.DayKey(yesterday)]:
		anchor = yesterday
	}

	if !anchor.IsZero() {
		var start *time.Time
		for d := anchor; ; d = d.AddDate(0, 0, -1) {
			key := utils.DayKey(d)
			if active[key] {
				m.CurrentStreak++
				day := d
				start = &day
				continue
			}
			if frozen[key] {
				continue
			}
			break
		}
		// A run made entirely of frozen days is not a streak.
		if m.CurrentStreak > 0 {
			m.StreakStartDate = start
		}
	}

	// Longest streak: single ascending scan over historical activity days.
	// Frozen days are deliberately excluded; the store does not record which
	// dates were frozen, so history stays freeze-agnostic.
	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if utils.DaysBetween(days[i-1], days[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	m.LongestStreak = longest
	if m.CurrentStreak > m.LongestStreak {
		m.LongestStreak = m.CurrentStreak
	}
	return m
}
