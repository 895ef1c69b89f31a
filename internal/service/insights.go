package service

import (
	"context"
	"database/sql"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jask/haven/internal/database/repository"
)

// WeekAverage is the mean mood of one Monday-start week. Count is zero for weeks
// without check-ins.
type WeekAverage struct {
	Start   time.Time
	Average float64
	Count   int
}

// Summary is everything the dashboard shows.
type Summary struct {
	Profile     *repository.Profile
	ActiveGoals []repository.Goal
	Upcoming    []repository.Session
	RecentMoods []repository.MoodEntry
	Unread      int
	Weeks       []WeekAverage
	Streak      int
}

// InsightService aggregates rows for the dashboard.
type InsightService struct {
	DB    *sql.DB
	Now   func() time.Time
	Loc   *time.Location
	Weeks int
}

func (s *InsightService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *InsightService) loc() *time.Location {
	if s.Loc == nil {
		return time.Local
	}
	return s.Loc
}

// Summary loads the dashboard lists concurrently.
func (s *InsightService) Summary(ctx context.Context) (Summary, error) {
	return s.SummaryWeeks(ctx, s.Weeks)
}

// SummaryWeeks is Summary with a mood chart of the given number of weeks.
func (s *InsightService) SummaryWeeks(ctx context.Context, weeks int) (Summary, error) {
	if weeks <= 0 {
		weeks = 6
	}
	now := s.now()
	since := weekStart(now, s.loc()).AddDate(0, 0, -7*(weeks-1))

	var out Summary
	var checkIns []time.Time
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := repository.NewProfileRepo(s.DB).Get(ctx, repository.LocalProfileID)
		out.Profile = p
		return err
	})
	g.Go(func() error {
		goals, err := repository.NewGoalRepo(s.DB).List(ctx, repository.GoalFilters{Status: repository.GoalActive})
		out.ActiveGoals = goals
		return err
	})
	g.Go(func() error {
		sessions, err := repository.NewSessionRepo(s.DB).List(ctx, repository.SessionFilters{
			Status: repository.SessionScheduled,
			From:   now,
		})
		out.Upcoming = sessions
		return err
	})
	g.Go(func() error {
		moods, err := repository.NewMoodRepo(s.DB).ListSince(ctx, since)
		out.RecentMoods = moods
		return err
	})
	g.Go(func() error {
		// The streak may run past the chart window.
		times, err := repository.NewMoodRepo(s.DB).RecordedTimes(ctx)
		checkIns = times
		return err
	})
	g.Go(func() error {
		n, err := repository.NewNotificationRepo(s.DB).CountUnread(ctx)
		out.Unread = n
		return err
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	out.Weeks = WeeklyMoodAverages(out.RecentMoods, s.loc(), weeks, now)
	out.Streak = dayStreak(checkIns, s.loc(), now)
	return out, nil
}

// WeeklyMoodAverages buckets entries into the last n Monday-start weeks ending with
// the week containing now, oldest first.
func WeeklyMoodAverages(entries []repository.MoodEntry, loc *time.Location, n int, now time.Time) []WeekAverage {
	if n <= 0 {
		return nil
	}
	if loc == nil {
		loc = time.Local
	}
	first := weekStart(now, loc).AddDate(0, 0, -7*(n-1))
	out := make([]WeekAverage, n)
	sums := make([]int, n)
	for i := range out {
		out[i].Start = first.AddDate(0, 0, 7*i)
	}
	for _, e := range entries {
		start := weekStart(e.RecordedAt, loc)
		if start.Before(first) {
			continue
		}
		idx := int(start.Sub(first).Hours()/24+0.5) / 7
		if idx >= n {
			continue
		}
		out[idx].Count++
		sums[idx] += e.Score
	}
	for i := range out {
		if out[i].Count > 0 {
			out[i].Average = float64(sums[i]) / float64(out[i].Count)
		}
	}
	return out
}

// MoodStreak counts consecutive days with at least one check-in, ending today. A
// streak that ended yesterday still counts so it is not lost before today's
// check-in.
func MoodStreak(entries []repository.MoodEntry, loc *time.Location, now time.Time) int {
	times := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		times = append(times, e.RecordedAt)
	}
	return dayStreak(times, loc, now)
}

func dayStreak(times []time.Time, loc *time.Location, now time.Time) int {
	if loc == nil {
		loc = time.Local
	}
	days := make(map[string]bool, len(times))
	for _, t := range times {
		days[t.In(loc).Format("2006-01-02")] = true
	}
	day := now.In(loc)
	if !days[day.Format("2006-01-02")] {
		day = day.AddDate(0, 0, -1)
	}
	n := 0
	for days[day.Format("2006-01-02")] {
		n++
		day = day.AddDate(0, 0, -1)
	}
	return n
}

func weekStart(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
}
