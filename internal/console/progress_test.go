package console

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00:00"},
		{45 * time.Second, "0:00:45"},
		{5*time.Minute + 32*time.Second, "0:05:32"},
		{2*time.Hour + 3*time.Minute + 4*time.Second, "2:03:04"},
		{-time.Minute, "0:00:00"},
	}

	for _, tc := range tests {
		if got := FormatDuration(tc.in); got != tc.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestReporterStep(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, 2)

	r.Step("Processing tracks")
	if !strings.Contains(buf.String(), "50.0% complete") {
		t.Fatalf("first step output %q, want 50.0%%", buf.String())
	}

	r.Step("Processing tracks")
	out := buf.String()
	if !strings.Contains(out, "100.0% complete") {
		t.Fatalf("second step output %q, want 100.0%%", out)
	}
	if !strings.Contains(out, "Done!") {
		t.Fatalf("final step output %q, want Done!", out)
	}
}

func TestReporterDetail(t *testing.T) {
	var buf bytes.Buffer
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r := NewReporter(&buf, 10)
	r.start = base
	r.now = func() time.Time { return base.Add(50 * time.Second) }

	for i := 0; i < 4; i++ {
		r.Detail("quiet track")
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output before the fifth item, got %q", buf.String())
	}

	r.Detail("Track Five by Artist")
	out := buf.String()
	for _, want := range []string{
		"Progress: 5/10 tracks (50.0%)",
		"Current track: Track Five by Artist",
		"Time elapsed: 0:00:50",
		"Estimated time remaining: 0:00:50",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("detail output missing %q in %q", want, out)
		}
	}
}
