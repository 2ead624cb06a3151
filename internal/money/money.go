// Package money splits amounts into rubles and kopecks and spells them with
// the matching Russian word forms.
package money

import (
	"fmt"
	"math"
)

// kopeckEpsilon absorbs float noise such as 4208.3*100 = 420829.99999999994.
const kopeckEpsilon = 1e-6

var (
	RubleForms  = Forms{"рубль", "рублей", "рубля"}
	KopeckForms = Forms{"копейка", "копеек", "копейки"}
)

// Forms is a word in singular, plural-many and plural-few forms, e.g. рубль/рублей/рубля.
type Forms [3]string

// Amount is a money value decomposed into whole rubles and kopecks.
// Both parts carry the sign of the original value.
type Amount struct {
	Rubles  int64
	Kopecks int64
}

// FromFloat truncates v toward zero to whole kopecks.
func FromFloat(v float64) Amount {
	cents := v * 100
	if cents >= 0 {
		cents = math.Floor(cents + kopeckEpsilon)
	} else {
		cents = math.Ceil(cents - kopeckEpsilon)
	}
	c := int64(cents)
	return Amount{Rubles: c / 100, Kopecks: c % 100}
}

// Float reconstructs the value as rubles + kopecks/100.
func (a Amount) Float() float64 {
	return float64(a.Rubles) + float64(a.Kopecks)/100
}

// Abs drops the sign.
func (a Amount) Abs() Amount {
	if a.Rubles < 0 || a.Kopecks < 0 {
		return Amount{Rubles: -a.Rubles, Kopecks: -a.Kopecks}
	}
	return a
}

// String spells the amount, e.g. "4208 рублей 30 копеек".
func (a Amount) String() string {
	abs := a.Abs()
	sign := ""
	if abs != a {
		sign = "минус "
	}
	return fmt.Sprintf("%s%d %s %d %s",
		sign,
		abs.Rubles, Wordform(abs.Rubles, RubleForms),
		abs.Kopecks, Wordform(abs.Kopecks, KopeckForms),
	)
}

// Format is shorthand for FromFloat(v).String().
func Format(v float64) string { return FromFloat(v).String() }

// Wordform picks the grammatical form of forms agreeing with n.
func Wordform(n int64, forms Forms) string {
	if n < 0 {
		n = -n
	}
	rem100 := n % 100
	rem10 := n % 10
	switch {
	case rem100 >= 11 && rem100 <= 19, rem10 == 0:
		return forms[1]
	case rem10 == 1:
		return forms[0]
	case rem10 >= 2 && rem10 <= 4:
		return forms[2]
	default:
		return forms[1]
	}
}
