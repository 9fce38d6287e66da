package card

import (
	"github.com/mcoot/bingobot/internal/dependencies/random"
	"github.com/mcoot/bingobot/internal/model"
)

// Service generates player cards
type Service struct {
	random random.Random
}

// New creates a new CardService
func New(random random.Random) *Service {
	return &Service{
		random: random,
	}
}

// Generate returns a new card. Each column holds distinct values from its
// fixed range and the center cell is free.
func (s *Service) Generate() model.Card {
	var card model.Card
	for col := 0; col < model.CardSize; col++ {
		values := s.sampleColumn(col)
		for row := 0; row < model.CardSize; row++ {
			card.Cells[model.Index(row, col)] = values[row]
		}
	}
	card.Cells[model.CenterIndex] = model.FreeCell
	return card
}

// sampleColumn draws CardSize distinct values from the column's range,
// redrawing on collision
func (s *Service) sampleColumn(col int) []int {
	lo, _ := model.ColumnRange(col)
	seen := make(map[int]bool, model.CardSize)
	values := make([]int, 0, model.CardSize)
	for len(values) < model.CardSize {
		n := lo + s.random.Intn(model.ColumnSpan)
		if seen[n] {
			continue
		}
		seen[n] = true
		values = append(values, n)
	}
	return values
}

// Interface for dependency injection
type Generator interface {
	Generate() model.Card
}

var _ Generator = (*Service)(nil)
