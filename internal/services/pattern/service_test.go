package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/bingobot/internal/model"
)

// testCard has value 15*col + row + 1 in each cell, with the free center
func testCard() model.Card {
	var c model.Card
	for row := 0; row < model.CardSize; row++ {
		for col := 0; col < model.CardSize; col++ {
			c.Cells[model.Index(row, col)] = col*model.ColumnSpan + row + 1
		}
	}
	c.Cells[model.CenterIndex] = model.FreeCell
	return c
}

// marksAt marks the values at the given cell indices
func marksAt(c model.Card, indices ...int) map[int]bool {
	marked := make(map[int]bool)
	for _, i := range indices {
		if !c.IsFree(i) {
			marked[c.Cells[i]] = true
		}
	}
	return marked
}

func allIndices() []int {
	result := make([]int, model.CardCells)
	for i := range result {
		result[i] = i
	}
	return result
}

func TestMatches(t *testing.T) {
	c := testCard()
	service := New()

	tests := []struct {
		name    string
		mode    model.Mode
		indices []int
		want    bool
	}{
		{"line first row", model.ModeLine, []int{0, 1, 2, 3, 4}, true},
		{"line center row uses free cell", model.ModeLine, []int{10, 11, 13, 14}, true},
		{"line incomplete", model.ModeLine, []int{0, 1, 2, 3}, false},
		{"line ignores columns", model.ModeLine, []int{0, 5, 10, 15, 20}, false},
		{"vertical first column", model.ModeVertical, []int{0, 5, 10, 15, 20}, true},
		{"vertical center column uses free cell", model.ModeVertical, []int{2, 7, 17, 22}, true},
		{"vertical ignores rows", model.ModeVertical, []int{0, 1, 2, 3, 4}, false},
		{"diagonal main", model.ModeDiagonal, []int{0, 6, 18, 24}, true},
		{"diagonal anti", model.ModeDiagonal, []int{4, 8, 16, 20}, true},
		{"diagonal incomplete", model.ModeDiagonal, []int{0, 6, 18}, false},
		{"corners", model.ModeCorners, []int{0, 4, 20, 24}, true},
		{"corners missing one", model.ModeCorners, []int{0, 4, 20}, false},
		{"block full", model.ModeBlock, allIndices(), true},
		{"block missing one", model.ModeBlock, allIndices()[1:], false},
		{"letter I", model.ModeLetterI, []int{0, 1, 2, 3, 4, 7, 17, 20, 21, 22, 23, 24}, true},
		{"letter I missing stem", model.ModeLetterI, []int{0, 1, 2, 3, 4, 20, 21, 22, 23, 24}, false},
		{"letter O", model.ModeLetterO, []int{1, 2, 3, 5, 9, 10, 14, 15, 19, 21, 22, 23}, true},
		{"letter N", model.ModeLetterN, []int{0, 4, 5, 6, 9, 10, 14, 15, 18, 19, 20, 24}, true},
		{"unknown mode", model.Mode("zigzag"), allIndices(), false},
		{"nothing marked", model.ModeLine, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.Matches(c, marksAt(c, tt.indices...), tt.mode)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBlockMatchesIffEveryNonFreeValueMarked(t *testing.T) {
	c := testCard()
	service := New()

	marked := marksAt(c, allIndices()...)
	assert.True(t, service.Matches(c, marked, model.ModeBlock))

	for _, n := range c.Numbers() {
		delete(marked, n)
		assert.False(t, service.Matches(c, marked, model.ModeBlock), "matched without %d", n)
		marked[n] = true
	}
}

func TestCornersIgnoresFreeCell(t *testing.T) {
	c := testCard()
	service := New()

	// Everything except the corners
	marked := marksAt(c, 1, 2, 3, 5, 6, 7, 8, 9, 10, 11, 13, 14, 15, 16, 17, 18, 19, 21, 22, 23)
	assert.False(t, service.Matches(c, marked, model.ModeCorners))
}

func TestEveryLetterShapeIsMatchable(t *testing.T) {
	c := testCard()
	service := New()

	for _, m := range model.ValidModes() {
		if !m.IsLetter() {
			continue
		}
		indices := model.LetterIndices(m)
		assert.True(t, service.Matches(c, marksAt(c, indices...), m), "letter %s", m)
		assert.False(t, service.Matches(c, marksAt(c, indices[1:]...), m), "letter %s without first cell", m)
	}
}

func TestMissing(t *testing.T) {
	c := testCard()
	service := New()

	// Row 0 needs one more; row 1 needs five
	marked := marksAt(c, 0, 1, 2, 3)
	assert.Equal(t, []int{c.Cells[4]}, service.Missing(c, marked, model.ModeLine))

	marked = marksAt(c, 0, 1, 2, 3, 4)
	assert.Nil(t, service.Missing(c, marked, model.ModeLine))

	assert.Nil(t, service.Missing(c, marked, model.Mode("zigzag")))

	// Center row only needs its four numbers
	assert.Equal(t, []int{3, 18, 48, 63}, service.Missing(c, map[int]bool{}, model.ModeLine))
}
