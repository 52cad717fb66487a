// Package progress reports byte transfer progress on a terminal or log
// stream.
package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/muesli/termenv"

	"github.com/danieljhkim/aihub/internal/clock"
	"github.com/danieljhkim/aihub/internal/logger"
)

// DefaultInterval is the minimum time between two redraws.
const DefaultInterval = 3 * time.Second

const (
	defaultWidth = 30
	mebibyte     = 1024 * 1024
)

// Tracker receives cumulative byte counts from a transfer.
type Tracker interface {
	// Update reports transferred bytes out of an expected total. The total
	// may be an estimate and may be exceeded.
	Update(transferred, total int64)

	// Complete marks the transfer finished.
	Complete()
}

// Nop is a Tracker that discards every update.
type Nop struct{}

func (Nop) Update(int64, int64) {}
func (Nop) Complete()           {}

// Bar draws a one-line progress bar.
//
// On a terminal the line is rewritten in place; elsewhere each redraw is
// its own line. Redraws are throttled to one per interval, except that the
// first update and Complete always draw.
type Bar struct {
	mu sync.Mutex

	out      io.Writer
	label    string
	model    progress.Model
	interval time.Duration
	clock    clock.Clock
	tty      bool

	drawn       bool
	lastDraw    time.Time
	transferred int64
	total       int64
}

// BarOption configures a Bar.
type BarOption func(*Bar)

// WithInterval sets the minimum time between redraws.
func WithInterval(d time.Duration) BarOption {
	return func(b *Bar) {
		b.interval = d
	}
}

// WithClock replaces the clock used for throttling.
func WithClock(clk clock.Clock) BarOption {
	return func(b *Bar) {
		b.clock = clk
	}
}

// NewBar creates a bar writing to w.
func NewBar(w io.Writer, label string, opts ...BarOption) *Bar {
	b := &Bar{
		out:      w,
		label:    label,
		interval: DefaultInterval,
		clock:    &clock.RealClock{},
		tty:      logger.IsTerminal(w),
	}
	for _, opt := range opts {
		opt(b)
	}

	barOpts := []progress.Option{progress.WithWidth(defaultWidth)}
	if b.tty {
		barOpts = append(barOpts, progress.WithDefaultGradient())
	} else {
		barOpts = append(barOpts, progress.WithColorProfile(termenv.Ascii))
	}
	b.model = progress.New(barOpts...)
	return b
}

// Update records progress and redraws when the interval has elapsed.
func (b *Bar) Update(transferred, total int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.transferred = transferred
	b.total = total

	now := b.clock.Now()
	if b.drawn && now.Sub(b.lastDraw) < b.interval {
		return
	}
	b.draw(now)
}

// Complete draws the final state and ends the line.
func (b *Bar) Complete() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.draw(b.clock.Now())
	if b.tty {
		_, _ = fmt.Fprintln(b.out)
	}
}

func (b *Bar) draw(now time.Time) {
	line := fmt.Sprintf("%s %s  %.2fMB / %.2fMB",
		b.label,
		b.model.ViewAs(Fraction(b.transferred, b.total)),
		float64(b.transferred)/mebibyte,
		float64(b.total)/mebibyte,
	)

	if b.tty {
		_, _ = fmt.Fprintf(b.out, "\r%s", line)
	} else {
		_, _ = fmt.Fprintln(b.out, line)
	}
	b.drawn = true
	b.lastDraw = now
}

// Fraction returns transferred/total clamped to [0, 1]. An unknown total
// reports 0.
func Fraction(transferred, total int64) float64 {
	if total <= 0 || transferred <= 0 {
		return 0
	}
	if transferred >= total {
		return 1
	}
	return float64(transferred) / float64(total)
}

// Reader reports the bytes read through it to a Tracker.
type Reader struct {
	r       io.Reader
	tracker Tracker
	total   int64
	n       int64
}

// NewReader wraps r. total is the expected size, 0 when unknown.
func NewReader(r io.Reader, tracker Tracker, total int64) *Reader {
	if tracker == nil {
		tracker = Nop{}
	}
	return &Reader{r: r, tracker: tracker, total: total}
}

func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if n > 0 {
		r.n += int64(n)
		r.tracker.Update(r.n, r.total)
	}
	return n, err
}

// N returns the number of bytes read so far.
func (r *Reader) N() int64 {
	return r.n
}
