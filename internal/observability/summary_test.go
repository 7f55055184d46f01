package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/frostline/vofc-engine/internal/types"
)

func TestPrintSummary(t *testing.T) {
	result := &types.Result{
		SubmissionID: "sub-1",
		Vulnerabilities: []types.Vulnerability{
			{ID: "v1", Title: "Unsecured gate.", Category: "Perimeter"},
		},
		OFCs: []types.OptionForConsideration{
			{ID: "o1", VulnerabilityID: "v1", Title: "Install bollards."},
			{ID: "o2", VulnerabilityID: "v1", Title: "Add lighting."},
		},
		Links:     types.LinkCounts{VulnOFC: 2},
		TimingSec: 1.5,
	}

	var buf bytes.Buffer
	PrintSummary(&buf, result)

	out := buf.String()
	assert.Contains(t, out, "sub-1")
	assert.Contains(t, out, "Vulnerabilities: 1")
	assert.Contains(t, out, "[Perimeter] Unsecured gate. (2 options)")
	assert.Contains(t, out, "1.50s")
}
