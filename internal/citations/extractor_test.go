package citations

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostline/vofc-engine/internal/extraction"
)

const coverPage = `Facility Security Assessment Report
Prepared by: Jane Smith, Robert Jones
Cybersecurity and Infrastructure Security Agency
Published: March 12, 2024
Report No. FSA-2024-117
Available at https://example.gov/reports/fsa-2024-117.pdf.

Section 1. Executive Summary
`

func TestExtract_FullCoverPage(t *testing.T) {
	source := Extract(coverPage, nil)

	assert.Equal(t, "Facility Security Assessment Report", source.Title)
	assert.Equal(t, []string{"Jane Smith", "Robert Jones"}, source.Authors)
	assert.Contains(t, source.Organization, "Infrastructure Security Agency")
	assert.Equal(t, "March 12, 2024", source.PublicationDate)
	assert.Equal(t, "FSA-2024-117", source.DocumentNumber)
	assert.Equal(t, "https://example.gov/reports/fsa-2024-117.pdf", source.URL)
	assert.NotEmpty(t, source.ID)
	assert.Contains(t, source.SourceText, "Facility Security Assessment Report")
	assert.Contains(t, source.SourceText, "March 12, 2024")
}

func TestExtract_TitleLengthBounds(t *testing.T) {
	text := "Short\n" + strings.Repeat("X", 250) + "\nAcceptable Assessment Title Line\n"
	source := Extract(text, nil)
	assert.Equal(t, "Acceptable Assessment Title Line", source.Title)
}

func TestExtract_AcronymOrganization(t *testing.T) {
	source := Extract("Regional Threat Overview\nPublished by CISA in coordination with local partners.\n", nil)
	assert.Equal(t, "CISA", source.Organization)
}

func TestExtract_BareDates(t *testing.T) {
	source := Extract("Annual Review Document\nIssued 04/15/2023 for internal use.\n", nil)
	assert.Equal(t, "04/15/2023", source.PublicationDate)
}

func TestExtract_ContainerMetadataFillsOnlyAbsentFields(t *testing.T) {
	meta := &extraction.ContainerMetadata{
		Title:   "Embedded Title",
		Author:  "Embedded Author",
		Subject: "Embedded Org",
	}

	// Text has a title but no authors or organization.
	source := Extract("Downtown Campus Assessment Findings\nnothing else here\n", meta)
	assert.Equal(t, "Downtown Campus Assessment Findings", source.Title, "text-derived title wins")
	assert.Equal(t, []string{"Embedded Author"}, source.Authors)
	assert.Equal(t, "Embedded Org", source.Organization)
}

func TestExtract_AuthorFallbackSkipsSentenceStarts(t *testing.T) {
	text := "Perimeter Review Working Draft\nThe Facility was reviewed by staff. Maria Lopez conducted interviews.\n"
	source := Extract(text, nil)
	require.NotEmpty(t, source.Authors)
	assert.Equal(t, "Maria Lopez", source.Authors[0])
}

func TestExtract_AuthorNamesNeverSpanLines(t *testing.T) {
	// "Penske" ends one line and "Davis" opens the next; gluing them into
	// one name would be wrong, and there is no real name anywhere.
	text := "Overview of the site security posture\nreviewed on behalf of Penske\nDavis handled nothing further here.\n"
	source := Extract(text, nil)
	assert.Empty(t, source.Authors)
}

func TestExtract_HeaderRegionBound(t *testing.T) {
	// A URL past the 5,000-character bound must not be picked up.
	text := "Site Assessment Overview Document\n" + strings.Repeat("filler text line\n", 400) +
		"https://late.example.gov/hidden\n"
	source := Extract(text, nil)
	assert.Empty(t, source.URL)
}

func TestExtract_EmptyText(t *testing.T) {
	source := Extract("", nil)
	assert.Empty(t, source.Title)
	assert.Empty(t, source.Authors)
	assert.Empty(t, source.SourceText)
	assert.NotEmpty(t, source.ID)
}
