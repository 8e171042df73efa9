package format

import (
	"math"
	"strconv"
	"strings"
)

// PriceUSD renders a price the way the catalog shows it: the shortest decimal
// form of the number, no thousands separators, no rounding.
// Example: PriceUSD(1234.5) => "$1234.5 USD"
func PriceUSD(price float64) string {
	return "$" + Number(price) + " USD"
}

// Number formats v in its shortest round-tripping decimal form.
func Number(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e21 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// OneDecimal formats v with exactly one fractional digit. Exact halves round
// away from zero, so 4.25 renders as "4.3" (strconv would pick the even "4.2").
func OneDecimal(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	// 64 fractional digits cover the full binary expansion of any double
	// in the ranges shown here.
	exact := strconv.FormatFloat(v, 'f', 64, 64)
	dot := strings.IndexByte(exact, '.')
	whole, err := strconv.ParseUint(exact[:dot], 10, 64)
	if err != nil || whole > math.MaxUint64/10-10 {
		return sign + strconv.FormatFloat(v, 'f', 1, 64)
	}
	tenths := whole*10 + uint64(exact[dot+1]-'0')
	if exact[dot+2] >= '5' {
		tenths++
	}
	if tenths == 0 {
		sign = ""
	}
	return sign + strconv.FormatUint(tenths/10, 10) + "." + strconv.FormatUint(tenths%10, 10)
}

// Score renders a normalized popularity score as "<score>/5".
func Score(normalized float64) string {
	return OneDecimal(normalized) + "/5"
}

// Grams renders a weight; empty when unknown.
func Grams(w float64) string {
	if w <= 0 {
		return ""
	}
	return Number(w) + " g"
}
