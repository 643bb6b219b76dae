package services

import "math"

// Cumulative points required to enter each level, L1 through L10. Levels
// are never extrapolated past the last entry.
var levelThresholds = []int{0, 1000, 2500, 5000, 10000, 20000, 40000, 75000, 125000, 200000}

// LevelForPoints returns the highest level whose threshold is <= points.
func LevelForPoints(points int) int {
	if points < 0 {
		points = 0
	}
	level := 1
	for i, threshold := range levelThresholds {
		if points >= threshold {
			level = i + 1
		}
	}
	return level
}

// LevelProgress describes where a point total sits within its level.
type LevelProgress struct {
	Level              int     `json:"level"`
	TotalPoints        int     `json:"total_points"`
	LevelThreshold     int     `json:"level_threshold"`
	NextLevelThreshold int     `json:"next_level_threshold"`
	PointsIntoLevel    int     `json:"points_into_level"`
	PointsToNextLevel  int     `json:"points_to_next_level"`
	Percentage         float64 `json:"percentage"`
}

func LevelProgressForPoints(points int) LevelProgress {
	if points < 0 {
		points = 0
	}
	level := LevelForPoints(points)
	current := levelThresholds[level-1]

	var next int
	if level >= len(levelThresholds) {
		// Max level has no real next threshold; fall back to twice the
		// current one so the percentage stays meaningful.
		next = current * 2
	} else {
		next = levelThresholds[level]
	}

	span := next - current
	pct := 0.0
	if span > 0 {
		pct = float64(points-current) / float64(span) * 100
	}
	pct = math.Round(pct*100) / 100
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	return LevelProgress{
		Level:              level,
		TotalPoints:        points,
		LevelThreshold:     current,
		NextLevelThreshold: next,
		PointsIntoLevel:    points - current,
		PointsToNextLevel:  next - points,
		Percentage:         pct,
	}
}
