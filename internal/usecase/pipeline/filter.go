package pipeline

import (
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/FizzahNasir/FYP-Synkro/internal/domain/entities"
)

// FilterCandidates keeps candidates with a description and a confidence at or
// above threshold. Confidences above 1 are clamped to 1.
func FilterCandidates(meetingID uuid.UUID, candidates []entities.Candidate, threshold float64) ([]*entities.ActionItem, int) {
	kept := make([]*entities.ActionItem, 0, len(candidates))
	discarded := 0

	for _, c := range candidates {
		c.Description = strings.TrimSpace(c.Description)
		if c.Description == "" || math.IsNaN(c.Confidence) {
			discarded++
			continue
		}
		if c.Confidence > 1 {
			c.Confidence = 1
		}
		if c.Confidence < threshold {
			discarded++
			continue
		}

		item, err := entities.NewActionItem(meetingID, c)
		if err != nil {
			discarded++
			continue
		}
		kept = append(kept, item)
	}

	return kept, discarded
}
