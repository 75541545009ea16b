package abacus

// Orientation fixes which end of a column slice holds the ones rod
type Orientation int

const (
	// LeastSignificantFirst puts the ones rod at index 0
	LeastSignificantFirst Orientation = iota
	// MostSignificantFirst puts the ones rod at the last index, the way the
	// frame is drawn left to right
	MostSignificantFirst
)

func (o Orientation) String() string {
	if o == MostSignificantFirst {
		return "most-significant-first"
	}
	return "least-significant-first"
}

// place returns the place value of slice index i in a slice of n columns
func (o Orientation) place(i, n int) int {
	if o == MostSignificantFirst {
		return n - 1 - i
	}
	return i
}

// Board is a row of columns read in a fixed orientation
type Board struct {
	Columns     []Column    `json:"columns"`
	Orientation Orientation `json:"orientation"`
}

// NewBoard returns a zeroed board of n columns
func NewBoard(n int, orientation Orientation) *Board {
	if n < 0 {
		n = 0
	}
	return &Board{
		Columns:     IntegerToColumns(0, n, orientation),
		Orientation: orientation,
	}
}

func (b *Board) column(i int) *Column {
	if i < 0 || i >= len(b.Columns) {
		return nil
	}
	return &b.Columns[i]
}

// ToggleUpper flips the upper bead of column col
func (b *Board) ToggleUpper(col int) {
	if c := b.column(col); c != nil {
		c.ToggleUpper()
	}
}

// ToggleLower pushes lower bead bead of column col
func (b *Board) ToggleLower(col, bead int) {
	if c := b.column(col); c != nil {
		c.ToggleLower(bead)
	}
}

// SetDigit shows digit on column col
func (b *Board) SetDigit(col, digit int) {
	if c := b.column(col); c != nil {
		c.SetDigit(digit)
	}
}

// SetValue shows v across the board, see IntegerToColumns
func (b *Board) SetValue(v int) {
	b.Columns = IntegerToColumns(v, len(b.Columns), b.Orientation)
}

// Value returns the number the board shows
func (b *Board) Value() int {
	return ColumnsToInteger(b.Columns, b.Orientation)
}

// Reset clears every column
func (b *Board) Reset() {
	for i := range b.Columns {
		b.Columns[i].Reset()
	}
}

// Capacity returns the largest value the board can show
func (b *Board) Capacity() int {
	limit := 0
	for range b.Columns {
		limit = limit*10 + 9
	}
	return limit
}

// ColumnsToInteger reads the number shown by cols in the given orientation
func ColumnsToInteger(cols []Column, orientation Orientation) int {
	n := len(cols)
	total := 0
	for p := n - 1; p >= 0; p-- {
		i := orientation.place(p, n) // place and index are an involution
		total = total*10 + cols[i].Value()
	}
	return total
}

// IntegerToColumns lays v out over n columns. The sign is ignored and digits
// beyond the n lowest places are dropped.
func IntegerToColumns(v, n int, orientation Orientation) []Column {
	if n <= 0 {
		return nil
	}
	if v < 0 {
		v = -v
	}
	cols := make([]Column, n)
	for p := 0; p < n; p++ {
		i := orientation.place(p, n)
		cols[i].Position = p
		cols[i].SetDigit(v % 10)
		v /= 10
	}
	return cols
}
