package model

import "strconv"

// Round4 rounds v to 4 decimal places, half to even on exact ties. Scores
// are stored at this precision so artifacts are reproducible.
func Round4(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 4, 64), 64)
	return r
}
