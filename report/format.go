package report

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const notAvailable = "N/A"

func valueOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

func signPrefix(d decimal.Decimal) string {
	if d.Sign() > 0 {
		return "+"
	}
	return ""
}

func isWhole(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(0))
}

// FormatModuleTotal renders an aggregated module bonus: floored to one
// decimal place, with "+" when the unfloored sum is positive, e.g.
// 12.37 -> "+12.3%", 0.05 -> "+0.0%", -0.05 -> "-0.1%".
func FormatModuleTotal(v float64) string {
	sign := ""
	if v > 0 {
		sign = "+"
	}
	floored := math.Floor(v*10) / 10
	if floored == 0 {
		// Drop the sign of negative zero.
		floored = 0
	}
	return sign + strconv.FormatFloat(floored, 'f', 1, 64) + "%"
}

// fixed prints the binary value of d with the given number of decimals,
// ties going to even.
func fixed(d decimal.Decimal, places int) string {
	return strconv.FormatFloat(d.InexactFloat64(), 'f', places, 64)
}

// FormatReactorStat floors to three decimal places and drops the fraction
// when the floored value is whole.
func FormatReactorStat(d decimal.Decimal) string {
	floored := d.RoundFloor(3)
	if isWhole(floored) {
		return signPrefix(d) + floored.StringFixed(0)
	}
	return signPrefix(d) + floored.StringFixed(3)
}

// FormatComponentStat prints whole values as integers and everything else
// with exactly three decimals. No flooring.
func FormatComponentStat(d decimal.Decimal) string {
	if isWhole(d) {
		return d.StringFixed(0)
	}
	return fixed(d, 3)
}

// FormatWeaponStat prints whole values as integers, others with one decimal,
// and falls back to the raw text when it is not a number.
func FormatWeaponStat(raw string) string {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	if isWhole(d) {
		return d.StringFixed(0)
	}
	return fixed(d, 1)
}

// socketInitial shortens a socket type to its first character. The "N/A"
// placeholder is kept whole.
func socketInitial(socket *string) string {
	if socket == nil || *socket == "" || *socket == notAvailable {
		return notAvailable
	}
	r, _ := utf8.DecodeRuneInString(*socket)
	return string(r)
}
