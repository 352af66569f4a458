package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/matzehuels/searchlab/pkg/observability"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a status line on w until stopped or until ctx ends. The
// line is the label followed by whatever status returns at each tick.
type Spinner struct {
	w      io.Writer
	label  string
	status func() string

	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}

	mu    sync.Mutex
	width int // printed width of the last frame
}

// newSpinner creates a spinner that stops when ctx is cancelled. status may
// be nil.
func newSpinner(ctx context.Context, w io.Writer, label string, status func() string) *Spinner {
	ctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       w,
		label:   label,
		status:  status,
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// line returns the text shown next to the frame.
func (s *Spinner) line() string {
	if s.status == nil {
		return s.label
	}
	if st := s.status(); st != "" {
		return s.label + " " + st
	}
	return s.label
}

func (s *Spinner) draw(frame string) {
	text := s.line()
	s.mu.Lock()
	defer s.mu.Unlock()
	pad := ""
	if n := len(text) + 2; n < s.width {
		pad = strings.Repeat(" ", s.width-n)
	} else {
		s.width = n
	}
	fmt.Fprintf(s.w, "\r%s %s%s", styleIconSpinner.Render(frame), StyleDim.Render(text), pad)
}

// Stop ends the animation and clears the line. Stopping twice is a no-op.
func (s *Spinner) Stop() {
	s.cancel()
	<-s.stopped
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	}
}

// StopWithError stops the spinner and prints msg as a failure.
func (s *Spinner) StopWithError(msg string) {
	s.Stop()
	printError("%s", msg)
}

// searchProgress counts search engine events for a spinner while a solve or
// compare runs. Events are passed on to the hooks it replaced.
type searchProgress struct {
	next  observability.SearchHooks
	total int // runs expected; 0 hides the run counter

	mu       sync.Mutex
	finished int
	done     int            // expansions of finished runs
	live     map[string]int // expansions of running runs, by strategy
}

// trackSearches installs a searchProgress as the process search hooks. The
// returned func restores the previous hooks.
func trackSearches(total int) (*searchProgress, func()) {
	p := &searchProgress{
		next:  observability.Search(),
		total: total,
		live:  make(map[string]int),
	}
	observability.SetSearchHooks(p)
	return p, func() { observability.SetSearchHooks(p.next) }
}

func (p *searchProgress) OnSearchStart(ctx context.Context, strategy string) {
	p.mu.Lock()
	p.live[strategy] = 0
	p.mu.Unlock()
	p.next.OnSearchStart(ctx, strategy)
}

func (p *searchProgress) OnSearchProgress(ctx context.Context, strategy string, stats observability.SearchStats) {
	p.mu.Lock()
	p.live[strategy] = stats.Expanded
	p.mu.Unlock()
	p.next.OnSearchProgress(ctx, strategy, stats)
}

func (p *searchProgress) OnSearchComplete(ctx context.Context, strategy string, stats observability.SearchStats, d time.Duration, err error) {
	p.mu.Lock()
	delete(p.live, strategy)
	p.finished++
	p.done += stats.Expanded
	p.mu.Unlock()
	p.next.OnSearchComplete(ctx, strategy, stats, d, err)
}

// status formats the counters, e.g. "2/4 done, 12,345 expanded". It is empty
// until the first run starts.
func (p *searchProgress) status() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.finished == 0 && len(p.live) == 0 {
		return ""
	}
	expanded := p.done
	for _, n := range p.live {
		expanded += n
	}
	count := humanize.Comma(int64(expanded)) + " expanded"
	if p.total > 0 {
		return fmt.Sprintf("%d/%d done, %s", p.finished, p.total, count)
	}
	return count
}
