package generator

import "strconv"

// Round rounds v to places decimal digits through its decimal string form,
// which keeps binary artifacts like 4.999999999999999 out of answers.
func Round(v float64, places int) float64 {
	if places < 0 {
		places = 0
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	if r == 0 {
		// drop the sign of -0
		return 0
	}
	return r
}

// Format renders v with the fewest digits that round-trip
func Format(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
