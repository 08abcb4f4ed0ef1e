package grading

import "fmt"

// ApplyAwards normalizes a manual-grading award map against a submission's
// frozen answer entries. Awards clamp to [0, entry max]; positions without a
// text entry are rejected. Positions not present in the map default to zero.
// Returns the normalized map and the manual total.
func ApplyAwards(entries []TextEntry, awards map[int]int) (map[int]int, int, error) {
	byPos := make(map[int]TextEntry, len(entries))
	for _, e := range entries {
		byPos[e.Position] = e
	}
	out := make(map[int]int, len(awards))
	total := 0
	for pos, pts := range awards {
		e, ok := byPos[pos]
		if !ok {
			return nil, 0, fmt.Errorf("position %d is not manually gradable", pos)
		}
		if pts < 0 {
			pts = 0
		}
		if pts > e.MaxPoints {
			pts = e.MaxPoints
		}
		out[pos] = pts
		total += pts
	}
	return out, total, nil
}

// TextEntry is a manually-gradable answer entry as frozen at capture time.
type TextEntry struct {
	Position   int    `json:"position"`
	QuestionID string `json:"question_id"`
	Prompt     string `json:"prompt,omitempty"`
	Answer     string `json:"answer"`
	MaxPoints  int    `json:"max_points"`
	Awarded    int    `json:"awarded"`
}
