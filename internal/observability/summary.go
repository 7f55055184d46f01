// Package observability prints human-readable run summaries.
package observability

import (
	"fmt"
	"io"

	"github.com/frostline/vofc-engine/internal/types"
)

// PrintSummary writes a short digest of a pipeline result.
func PrintSummary(w io.Writer, result *types.Result) {
	fmt.Fprintf(w, "Submission:      %s\n", result.SubmissionID)
	fmt.Fprintf(w, "Vulnerabilities: %d\n", len(result.Vulnerabilities))
	fmt.Fprintf(w, "OFCs:            %d\n", len(result.OFCs))
	fmt.Fprintf(w, "Links:           %d vuln-ofc, %d ofc-source\n", result.Links.VulnOFC, result.Links.OFCSources)
	fmt.Fprintf(w, "Sources:         %d\n", len(result.Sources))
	fmt.Fprintf(w, "Elapsed:         %.2fs\n", result.TimingSec)

	for _, v := range result.Vulnerabilities {
		count := 0
		for _, o := range result.OFCs {
			if o.VulnerabilityID == v.ID {
				count++
			}
		}
		fmt.Fprintf(w, "  [%s] %s (%d options)\n", v.Category, v.Title, count)
	}
}
