package progress

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/danieljhkim/aihub/internal/clock"
)

func lines(buf *bytes.Buffer) []string {
	out := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(out) == 1 && out[0] == "" {
		return nil
	}
	return out
}

func TestBar_Throttle(t *testing.T) {
	var buf bytes.Buffer
	clk := clock.NewFakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	bar := NewBar(&buf, "Downloading", WithClock(clk), WithInterval(3*time.Second))

	bar.Update(1*mebibyte, 10*mebibyte)
	if got := len(lines(&buf)); got != 1 {
		t.Fatalf("first update should draw, got %d lines", got)
	}

	clk.Advance(time.Second)
	bar.Update(2*mebibyte, 10*mebibyte)
	clk.Advance(time.Second)
	bar.Update(3*mebibyte, 10*mebibyte)
	if got := len(lines(&buf)); got != 1 {
		t.Fatalf("updates inside the interval should not draw, got %d lines", got)
	}

	clk.Advance(time.Second)
	bar.Update(4*mebibyte, 10*mebibyte)
	if got := len(lines(&buf)); got != 2 {
		t.Fatalf("update after the interval should draw, got %d lines", got)
	}

	bar.Complete()
	out := lines(&buf)
	if len(out) != 3 {
		t.Fatalf("Complete should always draw, got %d lines", len(out))
	}
	last := out[len(out)-1]
	if !strings.HasPrefix(last, "Downloading ") || !strings.Contains(last, "4.00MB / 10.00MB") {
		t.Errorf("unexpected final line %q", last)
	}
	if strings.Contains(buf.String(), "\r") {
		t.Error("non-terminal output must not use carriage returns")
	}
}

func TestBar_EstimateExceeded(t *testing.T) {
	var buf bytes.Buffer
	bar := NewBar(&buf, "dl", WithClock(clock.NewFakeClock(time.Now())))

	bar.Update(15*mebibyte, 10*mebibyte)
	bar.Complete()

	if !strings.Contains(buf.String(), "100%") {
		t.Errorf("percentage should cap at 100%%: %q", buf.String())
	}
}

func TestFraction(t *testing.T) {
	tests := []struct {
		transferred, total int64
		want               float64
	}{
		{0, 100, 0},
		{50, 100, 0.5},
		{100, 100, 1},
		{150, 100, 1},
		{10, 0, 0},
		{-1, 10, 0},
	}
	for _, tt := range tests {
		if got := Fraction(tt.transferred, tt.total); got != tt.want {
			t.Errorf("Fraction(%d, %d) = %v, want %v", tt.transferred, tt.total, got, tt.want)
		}
	}
}

type recorder struct {
	updates   []int64
	completed bool
}

func (r *recorder) Update(transferred, _ int64) { r.updates = append(r.updates, transferred) }
func (r *recorder) Complete()                   { r.completed = true }

func TestReader(t *testing.T) {
	rec := &recorder{}
	r := NewReader(strings.NewReader(strings.Repeat("x", 10000)), rec, 10000)

	n, err := io.Copy(io.Discard, r)
	if err != nil {
		t.Fatalf("copy failed: %v", err)
	}
	if n != 10000 || r.N() != 10000 {
		t.Errorf("read %d bytes, N() = %d", n, r.N())
	}
	if len(rec.updates) == 0 || rec.updates[len(rec.updates)-1] != 10000 {
		t.Errorf("updates = %v", rec.updates)
	}
	for i := 1; i < len(rec.updates); i++ {
		if rec.updates[i] <= rec.updates[i-1] {
			t.Fatalf("updates not cumulative: %v", rec.updates)
		}
	}
}

func TestReader_NilTracker(t *testing.T) {
	r := NewReader(strings.NewReader("abc"), nil, 0)
	if _, err := io.ReadAll(r); err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if r.N() != 3 {
		t.Errorf("N() = %d, want 3", r.N())
	}
}
