package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vk/tamigo/internal/analyzer"
	"github.com/vk/tamigo/internal/ctxlog"
	"github.com/vk/tamigo/internal/diag"
	"github.com/vk/tamigo/internal/savestore"
	"github.com/vk/tamigo/internal/vm"
)

// Game is the player input surface of a session.
type Game interface {
	NewGame(ctx context.Context) error
	Continue(ctx context.Context) error
	Act(ctx context.Context, label string) (bool, error)
	Combine(ctx context.Context, first, second string) (bool, error)
	Choose(ctx context.Context, index int) error
	Acknowledge(ctx context.Context) error
	SetAction(a vm.Action)
	Select(name string) bool
	Save(ctx context.Context) (savestore.Slot, error)
	Load(ctx context.Context, ts int64) error
	Slots(ctx context.Context) ([]savestore.Slot, error)
	Status() vm.Suspension
	Report() *analyzer.Report
}

var errQuit = errors.New("quit")

// Play starts the game, from the newest save slot when resume is set, and
// reads commands until "quit", end of input or cancellation. Script errors
// are shown and play goes on.
func (c *Console) Play(ctx context.Context, g Game, resume bool) error {
	logger := ctxlog.FromContext(ctx)

	if err := c.start(ctx, g, resume); err != nil {
		return err
	}

	scanner := bufio.NewScanner(c.in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.printf("> ")
		if !scanner.Scan() {
			c.printf("\n")
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		logger.Debug("Console command.", "line", line)

		err := c.execute(ctx, g, line)
		switch {
		case errors.Is(err, errQuit):
			return nil
		case err != nil:
			c.printf("! %s\n", err)
		}
	}
}

func (c *Console) start(ctx context.Context, g Game, resume bool) error {
	if resume {
		err := g.Continue(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, savestore.ErrNotFound) {
			return err
		}
		c.printf("No saved game, starting a new one.\n")
	}
	if err := g.NewGame(ctx); err != nil {
		if diag.KindOf(err) != diag.Runtime {
			return err
		}
		c.printf("! %s\n", err)
	}
	return nil
}

func (c *Console) execute(ctx context.Context, g Game, line string) error {
	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch verb {
	case "":
		if g.Status() == vm.AwaitingPauseAck || g.Status() == vm.AwaitingDialogueAck {
			return g.Acknowledge(ctx)
		}
		return nil
	case "quit", "exit":
		return errQuit
	case "new":
		c.links = nil
		return g.NewGame(ctx)
	case "look", "use", "apply":
		n, err := c.index(rest, len(c.links), "link")
		if err != nil {
			return err
		}
		g.SetAction(map[string]vm.Action{"look": vm.Look, "use": vm.Interact, "apply": vm.Apply}[verb])
		return c.follow(ctx, g, c.links[n])
	case "select":
		if !g.Select(rest) {
			return fmt.Errorf("you do not carry %q", rest)
		}
		return nil
	case "combine":
		first, second, ok := strings.Cut(rest, "+")
		if !ok {
			return fmt.Errorf("usage: combine <item> + <item>")
		}
		_, err := g.Combine(ctx, strings.TrimSpace(first), strings.TrimSpace(second))
		return err
	case "save":
		slot, err := g.Save(ctx)
		if err != nil {
			return err
		}
		c.printf("Saved as %s.\n", slot.Name())
		return nil
	case "slots":
		slots, err := g.Slots(ctx)
		if err != nil {
			return err
		}
		c.slots = slots
		RenderSlots(c.out, slots, c.now())
		return nil
	case "load":
		n, err := c.index(rest, len(c.slots), "slot")
		if err != nil {
			return err
		}
		return g.Load(ctx, c.slots[n].Timestamp)
	case "report":
		RenderReport(c.out, g.Report())
		return nil
	}

	if _, err := strconv.Atoi(verb); err == nil && rest == "" {
		if len(c.menu) > 0 {
			n, err := c.index(verb, len(c.menu), "option")
			if err != nil {
				return err
			}
			return g.Choose(ctx, n)
		}
		n, err := c.index(verb, len(c.links), "link")
		if err != nil {
			return err
		}
		return c.follow(ctx, g, c.links[n])
	}
	return fmt.Errorf("unknown command %q", line)
}

func (c *Console) follow(ctx context.Context, g Game, label string) error {
	found, err := g.Act(ctx, label)
	if err != nil {
		return err
	}
	if !found {
		c.printf("Nothing happens.\n")
	}
	return nil
}

// index converts a 1-based number typed by the player into a 0-based index.
func (c *Console) index(s string, n int, what string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil || i < 1 || i > n {
		return 0, fmt.Errorf("no %s %q", what, s)
	}
	return i - 1, nil
}
