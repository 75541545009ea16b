// Package abacus models the bead state of a soroban and the number it shows.
package abacus

// LowerBeads is the number of one-valued beads on each rod
const LowerBeads = 4

// Column is one rod: a single five-valued upper bead and four one-valued
// lower beads. Active lower beads are always contiguous from bead 0.
type Column struct {
	Position int              `json:"position"` // place value, 0 is the ones rod
	Upper    bool             `json:"upper"`
	Lower    [LowerBeads]bool `json:"lower"`
}

// Value returns the digit shown by the column, 0 to 9
func (c Column) Value() int {
	v := 0
	if c.Upper {
		v = 5
	}
	for _, active := range c.Lower {
		if active {
			v++
		}
	}
	return v
}

// ToggleUpper flips the upper bead
func (c *Column) ToggleUpper() {
	c.Upper = !c.Upper
}

// ToggleLower pushes lower beads as a group. An active bead is deactivated
// together with every bead after it; an inactive bead is activated together
// with every bead before it. Out of range beads are ignored.
func (c *Column) ToggleLower(bead int) {
	if bead < 0 || bead >= LowerBeads {
		return
	}
	if c.Lower[bead] {
		for i := bead; i < LowerBeads; i++ {
			c.Lower[i] = false
		}
		return
	}
	for i := 0; i <= bead; i++ {
		c.Lower[i] = true
	}
}

// SetDigit shows digit on the column. Digits outside 0..9 are ignored.
func (c *Column) SetDigit(digit int) {
	if digit < 0 || digit > 9 {
		return
	}
	c.Reset()
	if digit >= 5 {
		c.Upper = true
		digit -= 5
	}
	for i := 0; i < digit; i++ {
		c.Lower[i] = true
	}
}

// Reset clears every bead
func (c *Column) Reset() {
	c.Upper = false
	c.Lower = [LowerBeads]bool{}
}
