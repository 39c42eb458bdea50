// Package units converts token amounts between smallest-unit integers and
// human readable decimal strings.
package units

import (
	"fmt"
	"math/big"
	"strings"
)

// EtherDecimals is the number of decimals of the native token on EVM chains.
const EtherDecimals = 18

// Named units accepted by ParseAmount, mapped to their decimal exponent.
var namedUnits = map[string]int{
	"wei":    0,
	"kwei":   3,
	"mwei":   6,
	"gwei":   9,
	"szabo":  12,
	"finney": 15,
	"ether":  18,
	"eth":    18,
}

// FormatUnits renders value (in smallest units) as a decimal string with the
// given number of decimals. Trailing fractional zeros are trimmed but at least
// one fractional digit is kept, so 0 renders as "0.0" and 10^15 wei with 18
// decimals renders as "0.001".
func FormatUnits(value *big.Int, decimals int) string {
	if value == nil {
		value = new(big.Int)
	}
	if decimals < 0 {
		decimals = 0
	}

	negative := value.Sign() < 0
	abs := new(big.Int).Abs(value)

	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	whole, frac := new(big.Int).QuoRem(abs, divisor, new(big.Int))

	fraction := ""
	if decimals > 0 {
		digits := frac.String()
		fraction = strings.Repeat("0", decimals-len(digits)) + digits
		fraction = strings.TrimRight(fraction, "0")
	}
	if fraction == "" {
		fraction = "0"
	}

	out := whole.String() + "." + fraction
	if negative {
		out = "-" + out
	}
	return out
}

// FormatEther renders a wei amount as ether.
func FormatEther(wei *big.Int) string {
	return FormatUnits(wei, EtherDecimals)
}

// ParseUnits parses a decimal string into smallest units. It is the inverse of
// FormatUnits and rejects values with more fractional digits than decimals.
func ParseUnits(value string, decimals int) (*big.Int, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return nil, fmt.Errorf("empty amount")
	}

	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}

	whole, fraction, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if len(fraction) > decimals {
		if strings.TrimRight(fraction[decimals:], "0") != "" {
			return nil, fmt.Errorf("amount %q has more than %d decimals", value, decimals)
		}
		fraction = fraction[:decimals]
	}
	fraction += strings.Repeat("0", decimals-len(fraction))

	result, ok := new(big.Int).SetString(whole+fraction, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", value)
	}
	if negative {
		result.Neg(result)
	}
	return result, nil
}

// ParseEther parses a decimal ether string into wei.
func ParseEther(value string) (*big.Int, error) {
	return ParseUnits(value, EtherDecimals)
}

// ParseAmount parses "<decimal> <unit>" strings such as "0.001 ether" or
// "5 gwei". The unit is case-insensitive and may be attached to the number.
func ParseAmount(value string) (*big.Int, error) {
	number, unit, ok := SplitAmount(value)
	if !ok {
		return nil, fmt.Errorf("amount %q has no unit", value)
	}
	return ParseUnits(number, namedUnits[unit])
}

// SplitAmount separates the numeric part of an amount from a known unit
// suffix. ok is false when no known unit is present.
func SplitAmount(value string) (number, unit string, ok bool) {
	s := strings.ToLower(strings.TrimSpace(value))
	// longest suffix first so "gwei" is not matched as "wei"
	for _, candidate := range []string{"finney", "szabo", "ether", "kwei", "mwei", "gwei", "wei", "eth"} {
		if strings.HasSuffix(s, candidate) {
			number = strings.TrimSpace(strings.TrimSuffix(s, candidate))
			if number == "" {
				return "", "", false
			}
			return number, candidate, true
		}
	}
	return "", "", false
}
