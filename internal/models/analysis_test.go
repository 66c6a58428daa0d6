package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGapFindingKey(t *testing.T) {
	concept := GapFinding{Kind: GapKindConcept, Topic: "Data Analysis"}
	assert.Equal(t, "concept_gap_data_analysis", concept.Key())

	confidence := GapFinding{Kind: GapKindConfidence}
	assert.Equal(t, "confidence_gap", confidence.Key())

	speed := GapFinding{Kind: GapKindSpeed}
	assert.Equal(t, "speed_gap", speed.Key())
}

func TestSeverityRank(t *testing.T) {
	assert.Greater(t, SeverityHigh.Rank(), SeverityMedium.Rank())
	assert.Greater(t, SeverityMedium.Rank(), SeverityLow.Rank())
	assert.Equal(t, 0, Severity("bogus").Rank())
}

func TestRiskTierForScore(t *testing.T) {
	assert.Equal(t, RiskHigh, RiskTierForScore(0.49))
	assert.Equal(t, RiskMedium, RiskTierForScore(0.5))
	assert.Equal(t, RiskMedium, RiskTierForScore(0.74))
	assert.Equal(t, RiskOnTrack, RiskTierForScore(0.75))
	assert.Equal(t, RiskOnTrack, RiskTierForScore(1.0))
}

func TestTopicsFirstSeenOrder(t *testing.T) {
	attempts := []Attempt{
		{Topic: "Geometry"},
		{Topic: "Algebra"},
		{Topic: "Geometry"},
		{Topic: "Fractions"},
	}
	assert.Equal(t, []string{"Geometry", "Algebra", "Fractions"}, Topics(attempts))
}
