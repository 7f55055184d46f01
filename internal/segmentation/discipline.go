package segmentation

import "strings"

// DefaultDiscipline is assigned when no keyword family scores.
const DefaultDiscipline = "Physical Security"

// disciplineKeywords maps each security discipline to the vocabulary that
// signals it. Classification is by keyword density: the discipline with the
// most hits wins.
var disciplineKeywords = map[string][]string{
	"Security Management": {"policy", "plan", "post orders", "awareness", "security manager", "mass notification"},
	"Physical Security":   {"perimeter", "fence", "bollard", "gate", "cpted", "lighting", "illumination", "barrier"},
	"Entry Controls":      {"access control", "badge", "visitor", "screening", "magnetometer", "x-ray"},
	"VSS":                 {"cctv", "camera", "video", "vss", "surveillance"},
	"Security Force":      {"guard", "security force", "roving", "static post", "post orders"},
	"Information Sharing": {"infragard", "fusion", "hsin", "isac", "jttf", "liaison"},
	"Resilience":          {"business continuity", "emergency action", "continuity", "backup", "recovery"},
	"Training":            {"train", "exercise", "drill", "cpr", "stop the bleed", "active shooter"},
}

// GuessDiscipline classifies text into a security discipline using keyword
// density, biased by the segment's category label.
func GuessDiscipline(text, categoryHint string) string {
	haystack := strings.ToLower(categoryHint + " " + text)
	best := DefaultDiscipline
	bestScore := 0
	// Iterate deterministically so ties resolve the same way every run.
	for _, disc := range disciplineOrder {
		score := 0
		for _, kw := range disciplineKeywords[disc] {
			if strings.Contains(haystack, kw) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = disc, score
		}
	}
	return best
}

// Disciplines returns the recognized discipline labels in their canonical
// order.
func Disciplines() []string {
	out := make([]string, len(disciplineOrder))
	copy(out, disciplineOrder)
	return out
}

// disciplineOrder fixes the map iteration order for tie-breaking.
var disciplineOrder = []string{
	"Security Management",
	"Physical Security",
	"Entry Controls",
	"VSS",
	"Security Force",
	"Information Sharing",
	"Resilience",
	"Training",
}
