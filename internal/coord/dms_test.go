package coord

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestToDMS(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		axis  Axis
		deg   int64
		min   int64
		sec   string
		ref   string
	}{
		{"zero", 0, Latitude, 0, 0, "0", ""},
		{"zero longitude", 0, Longitude, 0, 0, "0", ""},
		{"west", -48.5, Longitude, 48, 30, "0", "W"},
		{"north", 2.5, Latitude, 2, 30, "0", "N"},
		{"south", -33.8688, Latitude, 33, 52, "7.68", "S"},
		{"east", 151.2093, Longitude, 151, 12, "33.48", "E"},
		{"seconds rounded", 25.2301, Latitude, 25, 13, "48.36", "N"},
		{"west fraction", -122.4194, Longitude, 122, 25, "9.84", "W"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDMS(tt.value, tt.axis)
			if got.Degrees != tt.deg || got.Minutes != tt.min || got.Ref != tt.ref {
				t.Errorf("ToDMS(%v) = %+v, want %d %d %s", tt.value, got, tt.deg, tt.min, tt.ref)
			}
			if want := decimal.RequireFromString(tt.sec); !got.Seconds.Equal(want) {
				t.Errorf("seconds = %s, want %s", got.Seconds, want)
			}
		})
	}
}

func TestToDMS_RoundsHalfAwayFromZero(t *testing.T) {
	// ToDMS relies on this mode for the 5-digit seconds.
	sec := decimal.RequireFromString("12.345675")
	if got := sec.Round(SecondsPlaces); !got.Equal(decimal.RequireFromString("12.34568")) {
		t.Fatalf("Round = %s", got)
	}
	neg := decimal.RequireFromString("-12.345675")
	if got := neg.Round(SecondsPlaces); !got.Equal(decimal.RequireFromString("-12.34568")) {
		t.Fatalf("Round = %s", got)
	}
}

func TestDMSRationals(t *testing.T) {
	d := ToDMS(25.2301, Latitude)
	got := d.Rationals()
	want := [3]Rational{{25, 1}, {13, 1}, {1209, 25}}
	if got != want {
		t.Errorf("Rationals = %v, want %v", got, want)
	}
}

func TestToRational(t *testing.T) {
	tests := []struct {
		in   string
		want Rational
	}{
		{"48.34300", Rational{48343, 1000}},
		{"48.343", Rational{48343, 1000}},
		{"0.5", Rational{1, 2}},
		{"12", Rational{12, 1}},
		{"0", Rational{0, 1}},
		{"-7.25", Rational{-29, 4}},
		{"59.99999", Rational{5999999, 100000}},
	}
	for _, tt := range tests {
		if got := ToRational(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("ToRational(%s) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRationalFromFloat(t *testing.T) {
	if got := RationalFromFloat(0.1); got != (Rational{1, 10}) {
		t.Errorf("RationalFromFloat(0.1) = %v", got)
	}
	if got := RationalFromFloat(48.343); got != (Rational{48343, 1000}) {
		t.Errorf("RationalFromFloat(48.343) = %v", got)
	}
}

func TestAltitudeRational(t *testing.T) {
	tests := []struct {
		in   float64
		want Rational
	}{
		{123, Rational{123, 1}},
		{123.5, Rational{124, 1}},
		{-3.5, Rational{-4, 1}},
		{0.2, Rational{0, 1}},
	}
	for _, tt := range tests {
		if got := AltitudeRational(tt.in); got != tt.want {
			t.Errorf("AltitudeRational(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRationalFloat64(t *testing.T) {
	if got := (Rational{3, 4}).Float64(); got != 0.75 {
		t.Errorf("Float64 = %v", got)
	}
	if got := (Rational{3, 0}).Float64(); got != 0 {
		t.Errorf("Float64 with zero denominator = %v", got)
	}
}

func TestRoundTrip(t *testing.T) {
	values := []float64{
		0, 2.5, -48.5, 45.12345, -45.12345, 89.99999, -179.99999, 179.5,
		51.477928, -0.001, 0.00001, 12.3456789, -33.8688, 151.2093,
	}
	for _, v := range values {
		for _, axis := range []Axis{Latitude, Longitude} {
			d := ToDMS(v, axis)
			got := FromRationals(d.Ref, d.Rationals())
			if math.Abs(got-v) > 1e-5 {
				t.Errorf("%s %v: round trip = %v (diff %g)", axis, v, got, math.Abs(got-v))
			}
		}
	}
}

func TestAxisRefs(t *testing.T) {
	if n, p := Latitude.Refs(); n != "S" || p != "N" {
		t.Errorf("latitude refs = %s %s", n, p)
	}
	if n, p := Longitude.Refs(); n != "W" || p != "E" {
		t.Errorf("longitude refs = %s %s", n, p)
	}
}
