package services

import "testing"

func TestLevelForPoints(t *testing.T) {
	cases := []struct {
		points int
		want   int
	}{
		{-50, 1},
		{0, 1},
		{999, 1},
		{1000, 2},
		{2499, 2},
		{2500, 3},
		{4999, 3},
		{5000, 4},
		{10000, 5},
		{20000, 6},
		{40000, 7},
		{75000, 8},
		{125000, 9},
		{199999, 9},
		{200000, 10},
		{500000, 10},
	}
	for _, tc := range cases {
		if got := LevelForPoints(tc.points); got != tc.want {
			t.Errorf("LevelForPoints(%d) = %d, want %d", tc.points, got, tc.want)
		}
	}
}

func TestLevelProgressForPoints(t *testing.T) {
	lp := LevelProgressForPoints(1750)
	if lp.Level != 2 {
		t.Fatalf("level = %d, want 2", lp.Level)
	}
	if lp.LevelThreshold != 1000 || lp.NextLevelThreshold != 2500 {
		t.Fatalf("thresholds = %d/%d, want 1000/2500", lp.LevelThreshold, lp.NextLevelThreshold)
	}
	if lp.PointsIntoLevel != 750 || lp.PointsToNextLevel != 750 {
		t.Fatalf("points into/to = %d/%d, want 750/750", lp.PointsIntoLevel, lp.PointsToNextLevel)
	}
	if lp.Percentage != 50 {
		t.Fatalf("percentage = %v, want 50", lp.Percentage)
	}
}

func TestLevelProgressAtMaxLevel(t *testing.T) {
	lp := LevelProgressForPoints(300000)
	if lp.Level != 10 {
		t.Fatalf("level = %d, want 10", lp.Level)
	}
	if lp.NextLevelThreshold != 400000 {
		t.Fatalf("next threshold = %d, want 400000", lp.NextLevelThreshold)
	}
	if lp.Percentage != 50 {
		t.Fatalf("percentage = %v, want 50", lp.Percentage)
	}
}

func TestLevelProgressAtThresholdBoundary(t *testing.T) {
	lp := LevelProgressForPoints(1000)
	if lp.Level != 2 {
		t.Fatalf("level = %d, want 2", lp.Level)
	}
	if lp.PointsIntoLevel != 0 {
		t.Fatalf("points into level = %d, want 0", lp.PointsIntoLevel)
	}
	if lp.Percentage != 0 {
		t.Fatalf("percentage = %v, want 0", lp.Percentage)
	}
}
