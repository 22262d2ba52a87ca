package progress

// The corpus carries two star threshold tables that do not agree. Rather
// than averaging them, each call site pins one: per-session stars use the
// coarse 3-tier table, level rollups use the fine 5-tier table.

// SessionStars maps a session percentage to 0-3 stars.
func SessionStars(percent float64) int {
	switch {
	case percent >= 100:
		return 3
	case percent >= 90:
		return 2
	case percent >= 80:
		return 1
	default:
		return 0
	}
}

// LevelStars maps a list percentage to 0-5 stars for level rollups.
// Note the asymmetry: the middle tiers are exclusive (>90, >80, >70)
// while the bottom tier is inclusive (>=60).
func LevelStars(percent float64) int {
	switch {
	case percent >= 100:
		return 5
	case percent > 90:
		return 4
	case percent > 80:
		return 3
	case percent > 70:
		return 2
	case percent >= 60:
		return 1
	default:
		return 0
	}
}
