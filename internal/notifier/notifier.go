package notifier

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"sync"
)

// Notifier delivers a formatted report.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

var htmlTag = regexp.MustCompile(`</?[a-z]+>`)

// ConsoleNotifier writes reports to w with HTML markup stripped.
type ConsoleNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsoleNotifier(w io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{w: w}
}

func (c *ConsoleNotifier) Notify(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintln(c.w, htmlTag.ReplaceAllString(text, ""))
	return err
}

// Multi fans a report out to every notifier and returns the first error.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, text string) error {
	var first error
	for _, n := range m {
		if err := n.Notify(ctx, text); err != nil && first == nil {
			first = err
		}
	}
	return first
}
