package lower

import "strconv"

func parseFloatStrconv(text string) (float64, error) {
	return strconv.ParseFloat(text, 64)
}
