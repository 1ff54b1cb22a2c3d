package coord

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Rational is an exact numerator/denominator pair in lowest terms with a
// positive denominator.
type Rational struct {
	Num int64
	Den int64
}

// ToRational returns the exact fraction written by d's decimal digits,
// e.g. 48.34300 becomes 48343/1000.
func ToRational(d decimal.Decimal) Rational {
	r := d.Rat()
	return Rational{Num: r.Num().Int64(), Den: r.Denom().Int64()}
}

// RationalFromFloat converts f through its shortest decimal representation,
// so 0.1 becomes 1/10 and not the nearest binary fraction.
func RationalFromFloat(f float64) Rational {
	return ToRational(decimal.NewFromFloat(f))
}

// AltitudeRational rounds meters to the nearest whole meter, half away from zero.
func AltitudeRational(meters float64) Rational {
	return Rational{Num: int64(math.Round(meters)), Den: 1}
}

// Float64 returns the value of r. A zero denominator yields 0.
func (r Rational) Float64() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}
