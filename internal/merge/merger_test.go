package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostline/vofc-engine/internal/types"
)

func sampleRecord() types.ExtractedRecord {
	return types.ExtractedRecord{
		Question:      "Is the perimeter gate secured after hours?",
		Vulnerability: "Unsecured perimeter gate",
		What:          "The east gate is left open overnight.",
		SoWhat:        "Unauthorized vehicles can reach the loading dock.",
		Category:      "Perimeter Security",
		Options: []types.ExtractedOption{
			{Text: "Install an automated gate closure with badge-controlled access."},
			{Text: "Conduct nightly perimeter checks of all vehicle gates."},
		},
	}
}

func TestMerge_DedupIdempotence(t *testing.T) {
	rec := sampleRecord()

	once := Merge([][]types.ExtractedRecord{{rec}}, "sub-1")
	twice := Merge([][]types.ExtractedRecord{{rec}, {rec}}, "sub-1")

	assert.Len(t, once.Vulnerabilities, 1)
	assert.Len(t, twice.Vulnerabilities, 1)
	assert.Len(t, twice.OFCs, 2)
}

func TestMerge_FuzzyQuestionMatchReusesID(t *testing.T) {
	a := sampleRecord()
	b := sampleRecord()
	b.Question = "Is the perimeter gate secured after hours ?" // whitespace jitter
	b.Options = []types.ExtractedOption{{Text: "Provide lighting coverage along the east fence line."}}

	m := Merge([][]types.ExtractedRecord{{a}, {b}}, "sub-1")

	require.Len(t, m.Vulnerabilities, 1)
	require.Len(t, m.OFCs, 3)
	for _, ofc := range m.OFCs {
		assert.Equal(t, m.Vulnerabilities[0].ID, ofc.VulnerabilityID)
	}
}

func TestMerge_DistinctQuestionsStayDistinct(t *testing.T) {
	a := sampleRecord()
	b := sampleRecord()
	b.Question = "Are visitor badges checked at the main lobby entrance?"
	b.Options = nil

	m := Merge([][]types.ExtractedRecord{{a, b}}, "sub-1")
	assert.Len(t, m.Vulnerabilities, 2)
}

func TestMerge_TitleKeyWhenNoQuestion(t *testing.T) {
	a := sampleRecord()
	a.Question = ""
	b := sampleRecord()
	b.Question = ""

	m := Merge([][]types.ExtractedRecord{{a}, {b}}, "sub-1")
	assert.Len(t, m.Vulnerabilities, 1)
}

func TestMerge_FirstContributionWinsFields(t *testing.T) {
	a := sampleRecord()
	b := sampleRecord()
	b.What = "A different narrative from the cross-check model."
	b.Options = nil

	m := Merge([][]types.ExtractedRecord{{a}, {b}}, "sub-1")
	require.Len(t, m.Vulnerabilities, 1)
	assert.Equal(t, a.What, m.Vulnerabilities[0].What)
}

func TestMerge_OFCDedupByNormalizedText(t *testing.T) {
	a := sampleRecord()
	b := sampleRecord()
	b.Question = "Are visitor badges checked at the main lobby entrance?"
	b.Options = []types.ExtractedOption{
		{Text: "Install an automated gate closure with   badge-controlled access."},
	}

	m := Merge([][]types.ExtractedRecord{{a, b}}, "sub-1")
	assert.Len(t, m.OFCs, 2)
}

func TestMerge_EmptyKeySkipped(t *testing.T) {
	m := Merge([][]types.ExtractedRecord{{{What: "narrative with no key"}}}, "sub-1")
	assert.Empty(t, m.Vulnerabilities)
}

func TestBuildDescription_WhatSoWhatBlocks(t *testing.T) {
	desc := BuildDescription(sampleRecord())
	assert.Equal(t, "WHAT: The east gate is left open overnight.\n\nSO WHAT: Unauthorized vehicles can reach the loading dock.", desc)
}

func TestBuildDescription_FallsBackToTitle(t *testing.T) {
	rec := types.ExtractedRecord{Vulnerability: "Unsecured gate"}
	assert.Equal(t, "Unsecured gate", BuildDescription(rec))
}

func TestSimilarity_NormalizesCaseAndWhitespace(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("Unsecured  GATE", "unsecured gate"))
	assert.Less(t, Similarity("unsecured gate", "missing cameras"), 0.5)
}
