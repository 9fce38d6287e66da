package model

// Card geometry
const (
	CardSize    = 5
	CardCells   = CardSize * CardSize
	CenterIndex = CardCells / 2

	// ColumnSpan is the width of each column's number range
	ColumnSpan = 15

	// MaxNumber is the highest number that can be called
	MaxNumber = CardSize * ColumnSpan
)

// ColumnLetters heads the card's columns
const ColumnLetters = "BINGO"

// FreeCell is the sentinel value stored in the center cell
const FreeCell = 0

// Card is a player's 5x5 grid, row-major. Cells[CenterIndex] is always FreeCell.
type Card struct {
	Cells [CardCells]int
}

// Index returns the row-major cell index for a row and column
func Index(row, col int) int {
	return row*CardSize + col
}

// ColumnRange returns the inclusive number range for a column
func ColumnRange(col int) (lo, hi int) {
	lo = col*ColumnSpan + 1
	return lo, lo + ColumnSpan - 1
}

// ColumnOf returns the column whose range contains n, or -1 if n is out of range
func ColumnOf(n int) int {
	if n < 1 || n > MaxNumber {
		return -1
	}
	return (n - 1) / ColumnSpan
}

// At returns the value at the given row and column
func (c *Card) At(row, col int) int {
	return c.Cells[Index(row, col)]
}

// IsFree returns true if the cell at index i is the free cell
func (c *Card) IsFree(i int) bool {
	return c.Cells[i] == FreeCell
}

// Contains returns true if n appears among the card's non-free values
func (c *Card) Contains(n int) bool {
	if n == FreeCell {
		return false
	}
	for _, v := range c.Cells {
		if v == n {
			return true
		}
	}
	return false
}

// Column returns the values in the given column, top to bottom
func (c *Card) Column(col int) []int {
	if col < 0 || col >= CardSize {
		return nil
	}
	result := make([]int, CardSize)
	for row := 0; row < CardSize; row++ {
		result[row] = c.At(row, col)
	}
	return result
}

// Row returns the values in the given row, left to right
func (c *Card) Row(row int) []int {
	if row < 0 || row >= CardSize {
		return nil
	}
	result := make([]int, CardSize)
	copy(result, c.Cells[row*CardSize:(row+1)*CardSize])
	return result
}

// Numbers returns the card's non-free values in row-major order
func (c *Card) Numbers() []int {
	result := make([]int, 0, CardCells-1)
	for _, v := range c.Cells {
		if v != FreeCell {
			result = append(result, v)
		}
	}
	return result
}
