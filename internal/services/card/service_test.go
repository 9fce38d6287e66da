package card

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/bingobot/internal/dependencies/mocks"
	"github.com/mcoot/bingobot/internal/dependencies/random"
	"github.com/mcoot/bingobot/internal/model"
)

type ServiceSuite struct {
	suite.Suite
	random  *mocks.MockRandom
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.random = mocks.NewMockRandom()
	s.service = New(s.random)
}

func (s *ServiceSuite) assertValidCard(c model.Card) {
	s.Equal(model.FreeCell, c.Cells[model.CenterIndex])
	for col := 0; col < model.CardSize; col++ {
		lo, hi := model.ColumnRange(col)
		seen := make(map[int]bool)
		for row := 0; row < model.CardSize; row++ {
			i := model.Index(row, col)
			if i == model.CenterIndex {
				continue
			}
			v := c.Cells[i]
			s.GreaterOrEqual(v, lo, "cell %d below column range", i)
			s.LessOrEqual(v, hi, "cell %d above column range", i)
			s.False(seen[v], "duplicate %d in column %d", v, col)
			seen[v] = true
		}
	}
}

func (s *ServiceSuite) TestGenerateUsesQueuedValuesPerColumn() {
	for col := 0; col < model.CardSize; col++ {
		s.random.QueueIntn(0, 1, 2, 3, 4)
	}

	c := s.service.Generate()

	s.Equal(1, c.At(0, 0))
	s.Equal(5, c.At(4, 0))
	s.Equal(16, c.At(0, 1))
	s.Equal(35, c.At(4, 2))
	s.Equal(model.FreeCell, c.At(2, 2))
	s.Equal(65, c.At(4, 4))
	s.assertValidCard(c)
}

func (s *ServiceSuite) TestGenerateRedrawsOnCollision() {
	// Repeated draws in the first column are discarded
	s.random.QueueIntn(0, 0, 0, 1, 1, 2, 3, 4)

	c := s.service.Generate()

	s.Equal([]int{1, 2, 3, 4, 5}, c.Column(0))
	s.Equal(0, s.random.Remaining())
	s.assertValidCard(c)
}

func (s *ServiceSuite) TestGenerateCenterIsFree() {
	c := s.service.Generate()
	s.True(c.IsFree(model.CenterIndex))
	s.Len(c.Numbers(), model.CardCells-1)
}

func (s *ServiceSuite) TestGeneratedCardsAreAlwaysValid() {
	service := New(random.New())
	for i := 0; i < 200; i++ {
		s.assertValidCard(service.Generate())
	}
}
