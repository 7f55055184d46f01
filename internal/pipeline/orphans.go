package pipeline

import (
	"strings"

	"github.com/google/uuid"

	"github.com/frostline/vofc-engine/internal/merge"
	"github.com/frostline/vofc-engine/internal/segmentation"
	"github.com/frostline/vofc-engine/internal/types"
)

// orphanSimThreshold is the minimum text similarity for attaching an
// unlinked OFC to a vulnerability by content alone.
const orphanSimThreshold = 0.3

// placeholderVulnTitle is the text of the synthesized vulnerability used
// when a result set has options but no vulnerabilities at all.
const placeholderVulnTitle = "Unspecified vulnerability."

// resolveOrphans guarantees every OFC references a vulnerability present in
// the returned set. Resolution order: keep a valid existing link, then best
// text-similarity match above the threshold, then the first vulnerability,
// then a synthesized placeholder. The returned slice is the input
// vulnerability set plus the placeholder if one was needed.
func resolveOrphans(vulns []types.Vulnerability, ofcs []types.OptionForConsideration, submissionID string) []types.Vulnerability {
	known := make(map[string]bool, len(vulns))
	for _, v := range vulns {
		known[v.ID] = true
	}

	var placeholder *types.Vulnerability
	for i := range ofcs {
		if known[ofcs[i].VulnerabilityID] {
			continue
		}
		ofcs[i].VulnerabilityID = ""

		if id := bestTextMatch(ofcs[i], vulns); id != "" {
			ofcs[i].VulnerabilityID = id
			continue
		}
		if len(vulns) > 0 {
			ofcs[i].VulnerabilityID = vulns[0].ID
			continue
		}
		if placeholder == nil {
			placeholder = &types.Vulnerability{
				ID:           uuid.NewString(),
				SubmissionID: submissionID,
				Title:        placeholderVulnTitle,
				Discipline:   segmentation.DefaultDiscipline,
				Category:     "General",
			}
		}
		ofcs[i].VulnerabilityID = placeholder.ID
	}

	if placeholder != nil {
		vulns = append(vulns, *placeholder)
	}
	return vulns
}

// bestTextMatch scores an OFC against each vulnerability's combined
// question/what/so-what text and returns the best id above the threshold.
func bestTextMatch(ofc types.OptionForConsideration, vulns []types.Vulnerability) string {
	ofcText := ofc.Title
	if ofcText == "" {
		ofcText = ofc.Description
	}

	bestID := ""
	bestSim := orphanSimThreshold
	for _, v := range vulns {
		combined := strings.TrimSpace(strings.Join([]string{v.Question, v.What, v.SoWhat}, " "))
		if combined == "" {
			combined = v.Title
		}
		if sim := merge.Similarity(ofcText, combined); sim > bestSim {
			bestSim = sim
			bestID = v.ID
		}
	}
	return bestID
}
