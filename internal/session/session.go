package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vk/tamigo/internal/analyzer"
	"github.com/vk/tamigo/internal/compiler"
	"github.com/vk/tamigo/internal/ctxlog"
	"github.com/vk/tamigo/internal/savestore"
	"github.com/vk/tamigo/internal/vm"
)

// Options tune a Session.
type Options struct {
	// Machine configures the interpreter, including the event sink. The sink
	// is called while the session lock is held and must not call back into
	// the session.
	Machine vm.Options
	// Overrides are assigned after the setup script on every new game.
	Overrides map[string]int64
	// Now stamps save slots. Defaults to time.Now.
	Now func() time.Time
}

// Session is one running game.
type Session struct {
	mu        sync.Mutex
	art       *compiler.Artifact
	m         *vm.Machine
	store     savestore.Store
	overrides map[string]int64
	now       func() time.Time
	lastSave  int64
}

// New creates a session for a compiled project. Call NewGame or Continue to
// start playing.
func New(art *compiler.Artifact, store savestore.Store, opts Options) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Session{
		art:       art,
		m:         vm.New(art.Program, opts.Machine),
		store:     store,
		overrides: opts.Overrides,
		now:       opts.Now,
	}
}

// NewGame resets the interpreter, runs the setup script, applies the
// configured overrides and runs until the first suspension.
func (s *Session) NewGame(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctxlog.FromContext(ctx).Info("🚀 Starting new game.")
	s.m.Reset()
	if len(s.art.Setup) > 0 {
		if err := s.m.RunSetup(ctx, s.art.Setup); err != nil {
			return fmt.Errorf("setup failed: %w", err)
		}
	}
	s.m.ApplyOverrides(s.overrides)
	return s.m.Run(ctx)
}

// Continue loads the newest save slot. It returns savestore.ErrNotFound
// when there is none.
func (s *Session) Continue(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, err := savestore.Latest(ctx, s.store)
	if err != nil {
		return err
	}
	return s.load(ctx, slot)
}

// Save writes the current state into a new slot and returns it.
func (s *Session) Save(ctx context.Context) (savestore.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx)
}

// Replace deletes the slot ts and saves the current state into a new one.
func (s *Session) Replace(ctx context.Context, ts int64) (savestore.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, ts); err != nil && !errors.Is(err, savestore.ErrNotFound) {
		return savestore.Slot{}, fmt.Errorf("failed to replace slot %d: %w", ts, err)
	}
	return s.save(ctx)
}

func (s *Session) save(ctx context.Context) (savestore.Slot, error) {
	data, err := s.m.Save()
	if err != nil {
		return savestore.Slot{}, err
	}
	ts := s.now().UnixMilli()
	if ts <= s.lastSave {
		ts = s.lastSave + 1
	}
	slot := savestore.Slot{Timestamp: ts, Data: data}
	if err := s.store.Put(ctx, slot); err != nil {
		return savestore.Slot{}, fmt.Errorf("failed to save slot %d: %w", ts, err)
	}
	s.lastSave = ts
	ctxlog.FromContext(ctx).Info("Game saved.", "slot", slot.Name(), "bytes", len(data))
	return slot, nil
}

// Load restores the slot ts.
func (s *Session) Load(ctx context.Context, ts int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, err := s.store.Get(ctx, ts)
	if err != nil {
		return err
	}
	return s.load(ctx, slot)
}

func (s *Session) load(ctx context.Context, slot savestore.Slot) error {
	if err := s.m.Load(ctx, slot.Data); err != nil {
		return fmt.Errorf("failed to load slot %s: %w", slot.Name(), err)
	}
	ctxlog.FromContext(ctx).Info("Game loaded.", "slot", slot.Name())
	return nil
}

// Delete removes the slot ts.
func (s *Session) Delete(ctx context.Context, ts int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Delete(ctx, ts)
}

// Slots lists the save slots, newest first.
func (s *Session) Slots(ctx context.Context) ([]savestore.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.List(ctx)
}

// Act runs the action label the player clicked. It reports false when the
// label does not exist.
func (s *Session) Act(ctx context.Context, label string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Interact(ctx, label)
}

// Combine runs the combination of two items.
func (s *Session) Combine(ctx context.Context, first, second string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Combine(ctx, first, second)
}

// Choose picks a menu option by index.
func (s *Session) Choose(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.ChooseMenu(ctx, index)
}

// Acknowledge dismisses a pause or dialogue line.
func (s *Session) Acknowledge(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Acknowledge(ctx)
}

// SetAction switches the interaction mode.
func (s *Session) SetAction(a vm.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m.SetAction(a)
}

// Select selects an inventory item, or clears the selection when name is
// empty.
func (s *Session) Select(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.SelectItem(name)
}

// View returns the presentation state.
func (s *Session) View() vm.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.View()
}

// Status returns the interpreter's suspension state.
func (s *Session) Status() vm.Suspension {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Status()
}

// Report returns the analyzer report of the compiled project.
func (s *Session) Report() *analyzer.Report {
	return s.art.Report
}
