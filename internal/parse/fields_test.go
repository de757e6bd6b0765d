package parse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   string
		want *float64
	}{
		{"360g", f(360)},
		{"1,250g", f(1250)},
		{"0g", f(0)},
		{"99.5g", f(99.5)},
		{"42", f(42)},
		{" 360g ", f(360)},
		{"g", nil},
		{"free", nil},
		{"", nil},
	}
	for _, c := range cases {
		got := ParsePrice(c.in)
		if c.want == nil {
			require.Nil(t, got, "ParsePrice(%q)", c.in)
			continue
		}
		require.NotNil(t, got, "ParsePrice(%q)", c.in)
		require.Equal(t, *c.want, *got, "ParsePrice(%q)", c.in)
	}
}

func TestParsePriceZeroIsNotNil(t *testing.T) {
	got := ParsePrice("0g")
	require.NotNil(t, got)
	require.Equal(t, 0.0, *got)
}

func TestParseDurability(t *testing.T) {
	cases := []struct {
		in   string
		want *float64
	}{
		{"10 Uses", f(10)},
		{"10 uses", f(10)},
		{"10Uses", f(10)},
		{"3/5", f(3)},
		{" 12 / 20 ", f(12)},
		{"7", f(7)},
		{"0", f(0)},
		{"broken", nil},
		{"", nil},
		{"a/b", nil},
	}
	for _, c := range cases {
		got := ParseDurability(c.in)
		if c.want == nil {
			require.Nil(t, got, "ParseDurability(%q)", c.in)
			continue
		}
		require.NotNil(t, got, "ParseDurability(%q)", c.in)
		require.Equal(t, *c.want, *got, "ParseDurability(%q)", c.in)
	}
}

func TestParseDamage(t *testing.T) {
	cases := []struct {
		in   string
		want *float64
	}{
		{"~3.0", f(3)},
		{"~ 2.5", f(2.5)},
		{"3", f(3)},
		{"2.5", f(2.5)},
		{"3-5", f(4)},
		{"1.5-2.5", f(2)},
		{"~3-5", f(4)},
		{"~ 1-2", f(1.5)},
		{"~", nil},
		{"high", nil},
		{"", nil},
	}
	for _, c := range cases {
		got := ParseDamage(c.in)
		if c.want == nil {
			require.Nil(t, got, "ParseDamage(%q)", c.in)
			continue
		}
		require.NotNil(t, got, "ParseDamage(%q)", c.in)
		require.Equal(t, *c.want, *got, "ParseDamage(%q)", c.in)
	}
}

func TestParseReqLevel(t *testing.T) {
	got := ParseReqLevel("12")
	require.NotNil(t, got)
	require.Equal(t, int64(12), *got)
	require.Nil(t, ParseReqLevel("n/a"))
}

func f(v float64) *float64 { return &v }
