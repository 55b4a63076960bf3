package reputation

import (
	"time"

	id "curator/pkg/domain"
)

// Record is the persisted per-user reputation state. Points are the source of
// truth for reputation-gated decisions; Level is a derived display label and
// never consulted for authorization.
type Record struct {
	UserID    id.UserID
	Points    int
	Level     string
	UpdatedAt time.Time
}

// Level labels in ascending order of points.
const (
	LevelContributor = "contributor"
	LevelAuthor      = "author"
	LevelCurator     = "curator"
	LevelModerator   = "moderator"
)

// levelThresholds maps minimum points to a level label. Order matters: the
// highest threshold at or below the user's points wins.
var levelThresholds = []struct {
	min   int
	label string
}{
	{500, LevelModerator},
	{200, LevelCurator},
	{100, LevelAuthor},
	{0, LevelContributor},
}

// DeriveLevel returns the display label for a point total.
func DeriveLevel(points int) string {
	for _, t := range levelThresholds {
		if points >= t.min {
			return t.label
		}
	}
	return LevelContributor
}
