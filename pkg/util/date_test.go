package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeUnix(t *testing.T) {
	want := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
	for _, in := range []int64{want.Unix(), want.UnixMilli()} {
		got, ok := ParseTime(strconv.FormatInt(in, 10))
		if !ok {
			t.Fatalf("expected ok for %d", in)
		}
		if !got.Equal(want) {
			t.Fatalf("ParseTime(%d) = %v, want %v", in, got, want)
		}
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
	for _, in := range []string{"", "yesterday", "-5"} {
		if got := ParseTimeDefault(in, def); !got.Equal(def) {
			t.Fatalf("expected default for %q", in)
		}
	}
}
