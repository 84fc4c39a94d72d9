package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildStatusDistribution_FullEnumCoverage(t *testing.T) {
	counts := map[string]int64{
		"pending":   3,
		"completed": 2,
	}

	distribution := BuildStatusDistribution(counts, 5)

	assert.Equal(t, int64(3), distribution["pending"])
	assert.Equal(t, int64(0), distribution["in-progress"], "absent statuses must still appear")
	assert.Equal(t, int64(2), distribution["completed"])
	assert.Equal(t, int64(5), distribution["All"])
	assert.Len(t, distribution, 4)
}

func TestBuildStatusDistribution_Empty(t *testing.T) {
	distribution := BuildStatusDistribution(map[string]int64{}, 0)

	assert.Equal(t, int64(0), distribution["pending"])
	assert.Equal(t, int64(0), distribution["in-progress"])
	assert.Equal(t, int64(0), distribution["completed"])
	assert.Equal(t, int64(0), distribution["All"])
}

func TestBuildStatusDistribution_TotalMatchesStatusSum(t *testing.T) {
	counts := map[string]int64{"pending": 1, "in-progress": 2, "completed": 4}
	distribution := BuildStatusDistribution(counts, 7)

	sum := distribution["pending"] + distribution["in-progress"] + distribution["completed"]
	assert.Equal(t, distribution["All"], sum)
}

func TestBuildPriorityLevels_CaseNormalization(t *testing.T) {
	// Stored priorities are lowercase, but historical documents may carry
	// mixed case; counting must fold them together.
	counts := map[string]int64{
		"low":    2,
		"Medium": 1,
		"medium": 3,
		"HIGH":   4,
	}

	levels := BuildPriorityLevels(counts)

	assert.Equal(t, int64(2), levels["Low"])
	assert.Equal(t, int64(4), levels["Medium"])
	assert.Equal(t, int64(4), levels["High"])
	assert.Len(t, levels, 3)
}

func TestBuildPriorityLevels_IgnoresUnknownValues(t *testing.T) {
	levels := BuildPriorityLevels(map[string]int64{"urgent": 9})

	assert.Equal(t, int64(0), levels["Low"])
	assert.Equal(t, int64(0), levels["Medium"])
	assert.Equal(t, int64(0), levels["High"])
}
