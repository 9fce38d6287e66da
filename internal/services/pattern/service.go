package pattern

import (
	"github.com/samber/lo"

	"github.com/mcoot/bingobot/internal/model"
)

// shapes maps each mode to its candidate index sets. A card matches a mode
// when every index of at least one candidate is satisfied.
var shapes = buildShapes()

func buildShapes() map[model.Mode][][]int {
	rows := make([][]int, model.CardSize)
	cols := make([][]int, model.CardSize)
	for i := 0; i < model.CardSize; i++ {
		for j := 0; j < model.CardSize; j++ {
			rows[i] = append(rows[i], model.Index(i, j))
			cols[i] = append(cols[i], model.Index(j, i))
		}
	}

	var main, anti []int
	for i := 0; i < model.CardSize; i++ {
		main = append(main, model.Index(i, i))
		anti = append(anti, model.Index(i, model.CardSize-1-i))
	}

	last := model.CardSize - 1
	corners := []int{
		model.Index(0, 0), model.Index(0, last),
		model.Index(last, 0), model.Index(last, last),
	}

	result := map[model.Mode][][]int{
		model.ModeLine:     rows,
		model.ModeVertical: cols,
		model.ModeDiagonal: {main, anti},
		model.ModeCorners:  {corners},
		model.ModeBlock:    {lo.Range(model.CardCells)},
	}
	for _, m := range model.ValidModes() {
		if m.IsLetter() {
			result[m] = [][]int{model.LetterIndices(m)}
		}
	}
	return result
}

// Service evaluates winning patterns
type Service struct{}

// New creates a new PatternService
func New() *Service {
	return &Service{}
}

// Matches returns true if the card with the given marks satisfies mode.
// Unknown modes never match.
func (s *Service) Matches(card model.Card, marked map[int]bool, mode model.Mode) bool {
	for _, candidate := range shapes[mode] {
		if len(unsatisfied(card, marked, candidate)) == 0 {
			return true
		}
	}
	return false
}

// Missing returns the card values still needed for the candidate shape that is
// closest to completion. It returns nil when the card already matches or the
// mode is unknown.
func (s *Service) Missing(card model.Card, marked map[int]bool, mode model.Mode) []int {
	var best []int
	found := false
	for _, candidate := range shapes[mode] {
		need := unsatisfied(card, marked, candidate)
		if len(need) == 0 {
			return nil
		}
		if !found || len(need) < len(best) {
			best = need
			found = true
		}
	}
	if !found {
		return nil
	}
	return lo.Map(best, func(i int, _ int) int { return card.Cells[i] })
}

// unsatisfied returns the indices in candidate that are neither free nor marked
func unsatisfied(card model.Card, marked map[int]bool, candidate []int) []int {
	return lo.Filter(candidate, func(i int, _ int) bool {
		return !card.IsFree(i) && !marked[card.Cells[i]]
	})
}

// Interface for dependency injection
type Matcher interface {
	Matches(card model.Card, marked map[int]bool, mode model.Mode) bool
	Missing(card model.Card, marked map[int]bool, mode model.Mode) []int
}

var _ Matcher = (*Service)(nil)
