package points

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/halvard/choreboard/pkg/entity"
)

type ActivityChore struct {
	ChoreID uuid.UUID `json:"choreId"`
	Name    string    `json:"name"`
	Count   int       `json:"count"`
	Points  int       `json:"points"`
}

// ActivityGroup collapses every entry a user logged at the same instant into
// one display row, with per-chore counts and a subtotal.
type ActivityGroup struct {
	UserID      uuid.UUID       `json:"userId"`
	UserName    string          `json:"userName"`
	CompletedAt time.Time       `json:"completedAt"`
	Chores      []ActivityChore `json:"chores"`
	Points      int             `json:"points"`
}

type activityKey struct {
	userID uuid.UUID
	at     int64
}

// GroupActivity groups entries by (user, completion instant), newest group
// first. Within a group chores keep first-encounter order.
func GroupActivity(entries []entity.RegistryEntry) []ActivityGroup {
	idx := make(map[activityKey]int)
	groups := make([]ActivityGroup, 0)
	for _, e := range entries {
		key := activityKey{userID: e.UserID, at: e.CompletedAt.UnixNano()}
		gi, ok := idx[key]
		if !ok {
			gi = len(groups)
			idx[key] = gi
			groups = append(groups, ActivityGroup{
				UserID:      e.UserID,
				UserName:    e.UserName,
				CompletedAt: e.CompletedAt,
			})
		}
		g := &groups[gi]
		ci := -1
		for i := range g.Chores {
			if g.Chores[i].ChoreID == e.ChoreID {
				ci = i
				break
			}
		}
		if ci < 0 {
			g.Chores = append(g.Chores, ActivityChore{ChoreID: e.ChoreID, Name: e.ChoreName})
			ci = len(g.Chores) - 1
		}
		g.Chores[ci].Count += e.Times
		g.Chores[ci].Points += e.Points
		g.Points += e.Points
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].CompletedAt.After(groups[j].CompletedAt)
	})
	return groups
}
