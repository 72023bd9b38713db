package transformer

import (
	"errors"
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	utc := func(y int, mo time.Month, d, h, mi, s, ns int) time.Time {
		return time.Date(y, mo, d, h, mi, s, ns, time.UTC)
	}
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2021-01-01 00:30:10", utc(2021, 1, 1, 0, 30, 10, 0)},
		{"2021-01-01T00:30:10", utc(2021, 1, 1, 0, 30, 10, 0)},
		{"2021-01-01T02:30:10+02:00", utc(2021, 1, 1, 0, 30, 10, 0)},
		{"2021-01-01 00:30:10.25", utc(2021, 1, 1, 0, 30, 10, 250000000)},
		{"01/31/2021 01:05:00 PM", utc(2021, 1, 31, 13, 5, 0, 0)},
		{"01/31/2021 13:05", utc(2021, 1, 31, 13, 5, 0, 0)},
		{"2021-01-31", utc(2021, 1, 31, 0, 0, 0, 0)},
		{"2020-02-29 23:59:59", utc(2020, 2, 29, 23, 59, 59, 0)},
	}
	for _, tc := range cases {
		got, err := ParseTimestamp(tc.in, nil)
		if err != nil {
			t.Fatalf("ParseTimestamp(%q): %v", tc.in, err)
		}
		if !got.Equal(tc.want) || got.Location() != time.UTC {
			t.Fatalf("ParseTimestamp(%q) = %v; want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseTimestamp_Rejects(t *testing.T) {
	for _, in := range []string{"", "not-a-date", "2021-02-30 00:00:00", "2021-13-01 00:00:00", "2021-01-01 24:00:00"} {
		if _, err := ParseTimestamp(in, nil); !errors.Is(err, ErrTimestamp) {
			t.Fatalf("ParseTimestamp(%q) err = %v; want ErrTimestamp", in, err)
		}
	}
}

func TestParseTimestamp_CustomLayouts(t *testing.T) {
	got, err := ParseTimestamp("31.01.2021 08:00", []string{"02.01.2006 15:04"})
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2021, 1, 31, 8, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("got %v; want %v", got, want)
	}
	// Custom layouts replace the defaults.
	if _, err := ParseTimestamp("2021-01-31 08:00:00", []string{"02.01.2006 15:04"}); err == nil {
		t.Fatal("expected default layouts to be ignored")
	}
}

func TestParseDateTimeMatchesTimeParse(t *testing.T) {
	for _, s := range []string{"2021-01-01 00:00:00", "1999-12-31 23:59:59", "2024-02-29 12:00:01"} {
		fast, ok := parseDateTime(s)
		slow, err := time.Parse(LayoutDateTime, s)
		if !ok || err != nil || !fast.Equal(slow) {
			t.Fatalf("%q: fast=%v,%v slow=%v,%v", s, fast, ok, slow, err)
		}
	}
}

func BenchmarkParseTimestamp(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := ParseTimestamp("2021-01-01 00:30:10", nil); err != nil {
			b.Fatal(err)
		}
	}
}
