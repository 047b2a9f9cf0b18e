package review

import (
	"fmt"

	"github.com/timmy/siscrap/internal/domain"
)

// ScoreBand buckets a match score for display.
type ScoreBand string

const (
	BandHigh   ScoreBand = "high"   // > 85
	BandMedium ScoreBand = "medium" // > 60
	BandLow    ScoreBand = "low"
)

// BandFor returns the display band of a 0-100 score.
func BandFor(score float64) ScoreBand {
	switch {
	case score > 85:
		return BandHigh
	case score > 60:
		return BandMedium
	default:
		return BandLow
	}
}

// CandidateRow is one alternate match as rendered under its task.
type CandidateRow struct {
	domain.Candidate
	Band         ScoreBand `json:"band"`
	ShowDiscount bool      `json:"showDiscount"`
}

func validateChoice(t *domain.Task, candidateID int64) error {
	if err := requireSimilar(t); err != nil {
		return err
	}
	if !t.HasCandidate(candidateID) {
		return fmt.Errorf("%w: candidate %d does not belong to task %d", ErrInvalidAction, candidateID, t.ID)
	}
	return nil
}

// promoteCandidate copies the candidate's match onto the task and makes it the
// only chosen candidate.
func promoteCandidate(t *domain.Task, candidateID int64) {
	for i := range t.Candidates {
		c := &t.Candidates[i]
		c.Chosen = c.ID == candidateID
		if c.Chosen {
			t.FoundTitle = c.Title
			t.Price = c.Price
			t.PriceDesc = c.DiscountPrice
			t.Link = c.Link
			t.Score = c.MatchScore
		}
	}
}

// candidateRows builds the candidate sub-view. At most one row is chosen; if the
// backend sent several, only the first stays marked.
func candidateRows(cs []domain.Candidate) []CandidateRow {
	rows := make([]CandidateRow, 0, len(cs))
	chosenSeen := false
	for _, c := range cs {
		if c.Chosen {
			if chosenSeen {
				c.Chosen = false
			}
			chosenSeen = true
		}
		rows = append(rows, CandidateRow{
			Candidate:    c,
			Band:         BandFor(c.MatchScore),
			ShowDiscount: c.DiscountPrice != "" && c.DiscountPrice != c.Price,
		})
	}
	return rows
}
