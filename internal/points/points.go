package points

import (
	"sort"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/halvard/choreboard/internal/error_values"
	"github.com/halvard/choreboard/pkg/entity"
)

// Package points holds the pure folds over registry entries. Both the API
// leaderboard handlers and the client SDK derive their views from here, so
// the two sides can never disagree on totals.

type DateFilter string

const (
	FilterToday     DateFilter = "today"
	FilterYesterday DateFilter = "yesterday"
	FilterThisWeek  DateFilter = "thisWeek"
	FilterLastWeek  DateFilter = "lastWeek"
	FilterThisMonth DateFilter = "thisMonth"
	FilterAll       DateFilter = "all"
)

func ParseFilter(s string) (DateFilter, error) {
	switch DateFilter(s) {
	case FilterToday, FilterYesterday, FilterThisWeek, FilterLastWeek, FilterThisMonth, FilterAll:
		return DateFilter(s), nil
	case "":
		return FilterAll, nil
	}
	return "", errorvalues.ErrBadDateFilter
}

// Window computes the half-open interval [start, end) for a filter in the
// location of now. Weeks start on Monday. bounded is false for FilterAll.
func Window(f DateFilter, now time.Time) (start, end time.Time, bounded bool) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch f {
	case FilterToday:
		return midnight, midnight.AddDate(0, 0, 1), true
	case FilterYesterday:
		return midnight.AddDate(0, 0, -1), midnight, true
	case FilterThisWeek:
		monday := midnight.AddDate(0, 0, -daysSinceMonday(now))
		return monday, monday.AddDate(0, 0, 7), true
	case FilterLastWeek:
		monday := midnight.AddDate(0, 0, -daysSinceMonday(now))
		return monday.AddDate(0, 0, -7), monday, true
	case FilterThisMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return first, first.AddDate(0, 1, 0), true
	}
	return time.Time{}, time.Time{}, false
}

func daysSinceMonday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// InWindow reports whether ts falls in [start, end).
func InWindow(ts, start, end time.Time) bool {
	return !ts.Before(start) && ts.Before(end)
}

// Filter restricts entries to those completed inside the filter's window.
func Filter(entries []entity.RegistryEntry, f DateFilter, now time.Time) []entity.RegistryEntry {
	start, end, bounded := Window(f, now)
	if !bounded {
		return entries
	}
	result := make([]entity.RegistryEntry, 0, len(entries))
	for _, e := range entries {
		if InWindow(e.CompletedAt, start, end) {
			result = append(result, e)
		}
	}
	return result
}

type UserTotal struct {
	UserID   uuid.UUID `json:"userId"`
	UserName string    `json:"userName"`
	Points   int       `json:"points"`
}

// UserTotals folds entries into per-user point sums, ordered by first
// encounter in the input.
func UserTotals(entries []entity.RegistryEntry) []UserTotal {
	idx := make(map[uuid.UUID]int)
	totals := make([]UserTotal, 0)
	for _, e := range entries {
		i, ok := idx[e.UserID]
		if !ok {
			i = len(totals)
			idx[e.UserID] = i
			totals = append(totals, UserTotal{UserID: e.UserID, UserName: e.UserName})
		}
		totals[i].Points += e.Points
	}
	return totals
}

// HouseholdTotal sums points across all entries in the view.
func HouseholdTotal(entries []entity.RegistryEntry) int {
	total := 0
	for _, e := range entries {
		total += e.Points
	}
	return total
}

// TopPerformer returns the user with the maximum total. Ties keep the user
// whose entries appeared first. ok is false for an empty view.
func TopPerformer(entries []entity.RegistryEntry) (best UserTotal, ok bool) {
	totals := UserTotals(entries)
	if len(totals) == 0 {
		return UserTotal{}, false
	}
	best = totals[0]
	for _, t := range totals[1:] {
		if t.Points > best.Points {
			best = t
		}
	}
	return best, true
}

type RankedTotal struct {
	Rank int `json:"rank"`
	UserTotal
}

// Leaderboard ranks per-user totals, highest points first. Equal totals keep
// first-encounter order.
func Leaderboard(entries []entity.RegistryEntry) []RankedTotal {
	totals := UserTotals(entries)
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Points > totals[j].Points
	})
	ranked := make([]RankedTotal, len(totals))
	for i, t := range totals {
		ranked[i] = RankedTotal{Rank: i + 1, UserTotal: t}
	}
	return ranked
}
