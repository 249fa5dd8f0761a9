package relay

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/tamigo/internal/diag"
	"github.com/vk/tamigo/internal/session"
	"github.com/vk/tamigo/internal/testutil"
	"github.com/vk/tamigo/internal/vm"
)

type emitted struct {
	event   string
	payload any
}

type fakeEmitter struct {
	mu    sync.Mutex
	calls []emitted
}

func (f *fakeEmitter) Emit(ev string, args ...any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, emitted{event: ev, payload: args[0]})
	return nil
}

type fakeApplier struct {
	got   []session.Input
	reply any
	err   error
}

func (f *fakeApplier) Apply(_ context.Context, in session.Input) (any, error) {
	f.got = append(f.got, in)
	return f.reply, f.err
}

func newRelay(t *testing.T) (*Relay, *fakeEmitter) {
	t.Helper()
	ctx, _ := testutil.LogContext(t)
	out := &fakeEmitter{}
	return &Relay{ctx: ctx, opts: Options{Event: "tami:event", Input: "tami:input"}, out: out}, out
}

func TestEmit_SendsPlainPayload(t *testing.T) {
	// Arrange
	r, out := newRelay(t)

	// Act
	r.Emit(vm.ItemAdded{Item: "lamp", Title: "Brass lamp"})

	// Assert
	require.Len(t, out.calls, 1)
	assert.Equal(t, "tami:event", out.calls[0].event)
	assert.Equal(t, map[string]any{
		"type": "item_added",
		"data": map[string]any{"item": "lamp", "title": "Brass lamp"},
	}, out.calls[0].payload)
}

func TestHandle(t *testing.T) {
	testCases := []struct {
		name      string
		data      []any
		applier   *fakeApplier
		wantType  string
		wantInput *session.Input
	}{
		{
			name:      "decoded object",
			data:      []any{map[string]any{"type": "choose", "index": 1.0}},
			applier:   &fakeApplier{},
			wantInput: &session.Input{Type: session.InputChoose, Index: 1},
		},
		{
			name:      "json string with reply",
			data:      []any{`{"type":"save"}`},
			applier:   &fakeApplier{reply: session.SlotInfo{Slot: 1, Name: "x"}},
			wantType:  "reply",
			wantInput: &session.Input{Type: session.InputSave},
		},
		{
			name:     "no data",
			applier:  &fakeApplier{},
			wantType: "input_error",
		},
		{
			name:     "invalid input",
			data:     []any{`{"type":"dance"}`},
			applier:  &fakeApplier{},
			wantType: "input_error",
		},
		{
			name:      "apply failure",
			data:      []any{`{"type":"load","slot":5}`},
			applier:   &fakeApplier{err: errors.New("save slot not found")},
			wantType:  "input_error",
			wantInput: &session.Input{Type: session.InputLoad, Slot: 5},
		},
		{
			name:      "runtime error is not repeated",
			data:      []any{`{"type":"acknowledge"}`},
			applier:   &fakeApplier{err: diag.NewRuntime(diag.CodeNotSuspended, 0, "halted")},
			wantInput: &session.Input{Type: session.InputAcknowledge},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			r, out := newRelay(t)

			// Act
			r.handle(r.ctx, tc.applier, tc.data...)

			// Assert
			if tc.wantInput != nil {
				require.Len(t, tc.applier.got, 1)
				assert.Equal(t, *tc.wantInput, tc.applier.got[0])
			} else {
				assert.Empty(t, tc.applier.got)
			}
			if tc.wantType == "" {
				assert.Empty(t, out.calls)
				return
			}
			require.Len(t, out.calls, 1)
			assert.Equal(t, tc.wantType, out.calls[0].payload.(map[string]any)["type"])
		})
	}
}

func TestDial_Unreachable(t *testing.T) {
	ctx, _ := testutil.LogContext(t)

	_, err := Dial(ctx, Options{URL: "http://127.0.0.1:1", ConnectTimeout: 2 * time.Second})

	require.Error(t, err)
}

func TestDial_BadURL(t *testing.T) {
	ctx, _ := testutil.LogContext(t)

	_, err := Dial(ctx, Options{URL: "://nope"})

	require.ErrorContains(t, err, "failed to parse URL")
}
