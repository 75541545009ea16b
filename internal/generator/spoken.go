package generator

import (
	"strings"

	"abacusisland/internal/models"
)

var speech = strings.NewReplacer(
	"+", " plus ",
	"-", " minus ",
	"×", " times ",
	"÷", " divided by ",
	"√", " square root of ",
	"%", " percent ",
	"/", " over ",
	"(", " ",
	")", " ",
)

// Spoken renders a problem as plain words for a speech engine
func Spoken(p models.Problem) string {
	h := p.Header()
	if p.Kind() == models.KindEnglish {
		return strings.Join(strings.Fields(h.Expression), " ")
	}
	return strings.Join(strings.Fields(speech.Replace(h.Expression)), " ")
}
