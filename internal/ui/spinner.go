package ui

import (
	"fmt"
	"io"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner shows progress for a slow git or engine call. Without a terminal
// it prints the message once and stays silent.
type Spinner struct {
	out     io.Writer
	animate bool
	message string

	stop chan struct{}
	wg   sync.WaitGroup
}

// NewSpinner returns a spinner for message; animate should be true only
// when out is a terminal.
func NewSpinner(out io.Writer, animate bool, message string) *Spinner {
	return &Spinner{out: out, animate: animate, message: message}
}

// Start shows the spinner. Calling Start twice has no effect.
func (s *Spinner) Start() {
	if s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	if !s.animate {
		fmt.Fprintf(s.out, "%s...\n", s.message)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()
		for frame := 0; ; frame++ {
			select {
			case <-s.stop:
				fmt.Fprint(s.out, "\r\033[K")
				return
			case <-ticker.C:
				fmt.Fprintf(s.out, "\r%s %s", Bold.Render(spinnerFrames[frame%len(spinnerFrames)]), s.message)
			}
		}
	}()
}

// Stop clears the spinner line. It is safe to call on a spinner that was
// never started.
func (s *Spinner) Stop() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	s.wg.Wait()
	s.stop = nil
}

// StopWithCheck stops the spinner and prints a success line.
func (s *Spinner) StopWithCheck(message string) {
	s.Stop()
	fmt.Fprintln(s.out, Success(message))
}

// While runs fn with the spinner showing.
func (s *Spinner) While(fn func() error) error {
	s.Start()
	defer s.Stop()
	return fn()
}
