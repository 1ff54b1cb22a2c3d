// Package coord converts decimal degrees into the degree/minute/second
// rationals stored in EXIF GPS fields.
package coord

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// SecondsPlaces is the number of fractional digits kept on DMS seconds.
const SecondsPlaces = 5

// Axis selects the hemisphere labels used for a coordinate.
type Axis int

const (
	Latitude Axis = iota
	Longitude
)

// Refs returns the negative and positive hemisphere labels of the axis.
func (a Axis) Refs() (neg, pos string) {
	if a == Longitude {
		return "W", "E"
	}
	return "S", "N"
}

func (a Axis) String() string {
	if a == Longitude {
		return "lon"
	}
	return "lat"
}

// DMS is a decimal-degree value split into degrees, minutes and seconds.
// Ref is empty for exactly zero.
type DMS struct {
	Degrees int64
	Minutes int64
	Seconds decimal.Decimal
	Ref     string
}

// ToDMS decomposes value. Seconds are rounded to SecondsPlaces digits, half
// away from zero, on the shortest decimal form of the float.
func ToDMS(value float64, axis Axis) DMS {
	neg, pos := axis.Refs()
	ref := ""
	switch {
	case value < 0:
		ref = neg
	case value > 0:
		ref = pos
	}

	abs := math.Abs(value)
	deg := math.Floor(abs)
	minFrac := (abs - deg) * 60
	mins := math.Floor(minFrac)
	sec := decimal.NewFromFloat((minFrac - mins) * 60).Round(SecondsPlaces)

	return DMS{
		Degrees: int64(deg),
		Minutes: int64(mins),
		Seconds: sec,
		Ref:     ref,
	}
}

// Rationals returns degrees, minutes and seconds as exact rationals.
func (d DMS) Rationals() [3]Rational {
	return [3]Rational{
		{Num: d.Degrees, Den: 1},
		{Num: d.Minutes, Den: 1},
		ToRational(d.Seconds),
	}
}

func (d DMS) String() string {
	return fmt.Sprintf("%d°%d'%s\"%s", d.Degrees, d.Minutes, d.Seconds.String(), d.Ref)
}

// FromRationals turns a hemisphere label and a DMS triplet back into signed
// decimal degrees.
func FromRationals(ref string, parts [3]Rational) float64 {
	v := parts[0].Float64() + parts[1].Float64()/60 + parts[2].Float64()/3600
	if ref == "S" || ref == "W" {
		v = -v
	}
	return v
}
