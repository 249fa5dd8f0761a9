package console

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/vk/tamigo/internal/markup"
	"github.com/vk/tamigo/internal/savestore"
	"github.com/vk/tamigo/internal/vm"
)

// Console renders events to a writer. It implements vm.Sink.
type Console struct {
	out   io.Writer
	in    io.Reader
	now   func() time.Time
	links []string
	menu  []vm.MenuEntry
	slots []savestore.Slot
	ended bool
}

// New creates a console reading commands from in and writing to out.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{in: in, out: out, now: time.Now}
}

// Emit implements vm.Sink.
func (c *Console) Emit(e vm.Event) {
	switch v := e.(type) {
	case vm.LocationChanged:
		c.links = nil
		c.printf("\n== %s ==\n", v.Title)
	case vm.ScreenCleared:
		c.links = nil
		c.printf("\n")
	case vm.SentenceShown:
		c.printf("%s\n", c.linked(v.Segments))
	case vm.DialogueShown:
		c.printf("%s\n", c.dialogue(v.Title, v.Direction, c.linked(v.Segments)))
	case vm.ItemAdded:
		c.printf("[+ %s]\n", v.Title)
	case vm.ItemRemoved:
		c.printf("[- %s]\n", v.Title)
	case vm.InventoryCleared:
		c.printf("[inventory emptied]\n")
	case vm.MenuShown:
		c.menu = v.Options
		for i, opt := range v.Options {
			c.printf("  %d) %s\n", i+1, opt.Title)
		}
	case vm.MenuOptionChosen:
		c.menu = nil
		c.printf("> %s\n", v.Title)
	case vm.PauseShown:
		c.printf("...\n")
	case vm.Ended:
		c.ended = true
		c.printf("\nThe end.\n")
	case vm.Restored:
		c.restore(v.View)
	}
}

func (c *Console) restore(view vm.View) {
	c.links = nil
	c.menu = nil
	c.ended = false
	if view.Title != "" {
		c.printf("\n== %s ==\n", view.Title)
	}
	for _, line := range view.Transcript {
		text := c.linked(markup.Parse(line.Text))
		if line.Speaker == "" {
			c.printf("%s\n", text)
			continue
		}
		c.printf("%s\n", c.dialogue(line.Speaker, line.Direction, text))
	}
	if len(view.Menu) > 0 {
		c.Emit(vm.MenuShown{Options: view.Menu})
	} else if view.Paused {
		c.printf("...\n")
	}
}

// linked renders segments with every action link numbered.
func (c *Console) linked(segs []markup.Segment) string {
	var b strings.Builder
	for _, seg := range segs {
		b.WriteString(seg.Text)
		if seg.Action != "" {
			c.links = append(c.links, seg.Action)
			fmt.Fprintf(&b, "[%d]", len(c.links))
		}
	}
	return b.String()
}

func (c *Console) dialogue(who, direction, text string) string {
	if direction != "" {
		return fmt.Sprintf("%s (%s): %s", who, direction, text)
	}
	return fmt.Sprintf("%s: %s", who, text)
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
