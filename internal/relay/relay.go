package relay

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/vk/tamigo/internal/ctxlog"
	"github.com/vk/tamigo/internal/diag"
	"github.com/vk/tamigo/internal/session"
	"github.com/vk/tamigo/internal/vm"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Options configure the relay connection.
type Options struct {
	URL                string
	Namespace          string
	Event              string
	Input              string
	InsecureSkipVerify bool
	// ConnectTimeout defaults to 15s.
	ConnectTimeout time.Duration
}

// Applier executes player input.
type Applier interface {
	Apply(ctx context.Context, in session.Input) (any, error)
}

// emitter is the outgoing half of a socket.io socket.
type emitter interface {
	Emit(ev string, args ...any) error
}

// Relay is a connected socket.io client. It implements vm.Sink.
type Relay struct {
	ctx  context.Context
	opts Options
	io   *socket.Socket
	out  emitter
}

// Dial connects to the presentation host and waits for the connection to
// be accepted.
func Dial(ctx context.Context, opts Options) (*Relay, error) {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 15 * time.Second
	}
	if opts.Namespace == "" {
		opts.Namespace = "/"
	}
	logger := ctxlog.FromContext(ctx).With("url", opts.URL, "namespace", opts.Namespace)
	logger.Info("Connecting relay...")

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	sockOpts := socket.DefaultOptions()
	sockOpts.SetPath(parsedURL.Path)
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		sockOpts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sockOpts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, sockOpts)
	io := manager.Socket(opts.Namespace, sockOpts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Relay connected", "sid", io.Id())
		select {
		case connectChan <- nil:
		default:
		}
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("connect error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		logger.Debug("Relay connect_error event fired", "error", err)
		select {
		case connectChan <- err:
		default:
		}
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection")
	case <-time.After(opts.ConnectTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", opts.ConnectTimeout)
	}
	return &Relay{ctx: ctx, opts: opts, io: io, out: io}, nil
}

// Emit implements vm.Sink.
func (r *Relay) Emit(e vm.Event) {
	r.send(e.Name(), e)
}

// Serve feeds input events to app until ctx is done or the host closes the
// connection.
func (r *Relay) Serve(ctx context.Context, app Applier) error {
	logger := ctxlog.FromContext(ctx)
	closed := make(chan error, 1)

	r.io.On(types.EventName(r.opts.Input), func(data ...any) {
		r.handle(ctx, app, data...)
	})
	r.io.On(types.EventName("disconnect"), func(args ...any) {
		reason := ""
		if len(args) > 0 {
			reason, _ = args[0].(string)
		}
		logger.Warn("Relay disconnected", "reason", reason)
		if reason == "io server disconnect" {
			select {
			case closed <- fmt.Errorf("presentation host closed the connection"):
			default:
			}
		}
	})

	logger.Info("🚀 Relay serving", "event", r.opts.Event, "input", r.opts.Input)
	select {
	case <-ctx.Done():
		return nil
	case err := <-closed:
		return err
	}
}

// Close disconnects from the host.
func (r *Relay) Close() error {
	ctxlog.FromContext(r.ctx).Info("Closing relay", "sid", r.io.Id())
	r.io.Disconnect()
	return nil
}

func (r *Relay) handle(ctx context.Context, app Applier, data ...any) {
	logger := ctxlog.FromContext(ctx)
	if len(data) == 0 {
		r.send("input_error", map[string]string{"message": "input event carries no data"})
		return
	}

	raw, err := toJSON(data[0])
	if err != nil {
		r.send("input_error", map[string]string{"message": err.Error()})
		return
	}
	in, err := session.DecodeInput(raw)
	if err != nil {
		r.send("input_error", map[string]string{"message": err.Error()})
		return
	}

	logger.Debug("Relay input received.", "type", in.Type)
	reply, err := app.Apply(ctx, in)
	switch {
	case err != nil && diag.KindOf(err) == diag.Runtime:
		// Already emitted as an error event.
	case err != nil:
		r.send("input_error", map[string]string{"message": err.Error()})
	case reply != nil:
		r.send("reply", reply)
	}
}

// send emits {"type": typ, "data": data} on the configured event. The
// payload is reduced to plain maps and slices first.
func (r *Relay) send(typ string, data any) {
	logger := ctxlog.FromContext(r.ctx)
	payload, err := toPlain(map[string]any{"type": typ, "data": data})
	if err != nil {
		logger.Error("Failed to encode relay payload.", "type", typ, "error", err)
		return
	}
	if err := r.out.Emit(r.opts.Event, payload); err != nil {
		logger.Error("Failed to emit relay payload.", "type", typ, "error", err)
	}
}

// toJSON accepts a JSON string, raw bytes or an already decoded object.
func toJSON(v any) ([]byte, error) {
	switch v := v.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("invalid input payload: %w", err)
	}
	return data, nil
}

func toPlain(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
