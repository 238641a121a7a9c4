package xbeeapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultTimeout       = 5 * time.Second
	DefaultInboundBuffer = 64
)

// Radio correlates requests written to an XBee with the responses read back
// from it. A reader goroutine runs until the transport returns an error; the
// caller owns the transport and closing it stops that goroutine.
type Radio struct {
	cn          io.ReadWriter
	log         *zap.Logger
	metrics     *Metrics
	timeout     time.Duration
	timeouts    map[FrameType]time.Duration
	inboundSize int
	inbound     chan Frame
	done        chan struct{}

	mu      sync.Mutex
	pending map[byte]*Pending
	seq     Sequence
	closed  bool
	err     error

	wmu sync.Mutex // Serializes transport writes.
}

type Option func(*Radio)

func WithLogger(l *zap.Logger) Option {
	return func(r *Radio) { r.log = l }
}

func WithMetrics(m *Metrics) Option {
	return func(r *Radio) { r.metrics = m }
}

// WithTimeout sets the deadline Do applies when its context has none.
func WithTimeout(d time.Duration) Option {
	return func(r *Radio) { r.timeout = d }
}

// WithFrameTimeout overrides the WithTimeout deadline for requests of type t.
// A zero d removes the override.
func WithFrameTimeout(t FrameType, d time.Duration) Option {
	return func(r *Radio) {
		if d <= 0 {
			delete(r.timeouts, t)
			return
		}

		r.timeouts[t] = d
	}
}

// WithInboundBuffer sets the capacity of the Inbound channel.
func WithInboundBuffer(n int) Option {
	return func(r *Radio) { r.inboundSize = n }
}

func NewRadio(cn io.ReadWriter, opts ...Option) *Radio {
	r := &Radio{
		cn:          cn,
		log:         zap.NewNop(),
		timeout:     DefaultTimeout,
		inboundSize: DefaultInboundBuffer,
		done:        make(chan struct{}),
		pending:     make(map[byte]*Pending),
		timeouts:    make(map[FrameType]time.Duration),
	}

	for _, o := range opts {
		o(r)
	}

	if r.inboundSize < 0 {
		r.inboundSize = 0
	}

	r.inbound = make(chan Frame, r.inboundSize)

	go r.recv()

	return r
}

// Inbound delivers frames that did not resolve a pending request. Frames are
// dropped when the channel is full. It is closed when the radio shuts down.
func (r *Radio) Inbound() <-chan Frame {
	return r.inbound
}

// Done is closed when the radio shuts down.
func (r *Radio) Done() <-chan struct{} {
	return r.done
}

// Err returns the reason the radio shut down, or nil while it is running.
func (r *Radio) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.err
}

// Close fails every pending request with ErrClosed and closes Inbound. It
// does not close the transport.
func (r *Radio) Close() error {
	r.shutdown(ErrClosed)
	return nil
}

// Send writes f to the radio. When f has a frame ID of zero no response is
// expected and the returned Pending is nil. Otherwise the ID must not belong
// to another pending request.
func (r *Radio) Send(f RequestFrame) (*Pending, error) {
	b, err := Encode(f)

	if err != nil {
		return nil, err
	}

	r.mu.Lock()

	if r.closed {
		r.mu.Unlock()
		return nil, r.err
	}

	if f.ID() == 0 {
		r.mu.Unlock()
		return nil, r.write(f, b)
	}

	if _, ok := r.pending[f.ID()]; ok {
		r.mu.Unlock()
		return nil, fmt.Errorf("%w: %d", ErrDuplicateFrameID, f.ID())
	}

	p := r.register(f)
	r.mu.Unlock()

	if err := r.transmit(p, f, b); err != nil {
		return nil, err
	}

	return p, nil
}

// Do assigns a free frame ID to f, sends it and waits for the response. The
// radio's timeout for f's type applies when ctx has no deadline.
func (r *Radio) Do(ctx context.Context, f RequestFrame) (ResponseFrame, error) {
	r.mu.Lock()

	if r.closed {
		r.mu.Unlock()
		return nil, r.err
	}

	id, ok := r.seq.Next(func(id byte) bool {
		_, ok := r.pending[id]
		return ok
	})

	if !ok {
		r.mu.Unlock()
		return nil, ErrNoFrameID
	}

	f = f.withID(id)
	b, err := Encode(f)

	if err != nil {
		r.mu.Unlock()
		return nil, err
	}

	p := r.register(f)
	r.mu.Unlock()

	if err := r.transmit(p, f, b); err != nil {
		return nil, err
	}

	timeout, ok := r.timeouts[f.Type()]

	if !ok {
		timeout = r.timeout
	}

	if _, ok := ctx.Deadline(); !ok && timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	return p.Wait(ctx)
}

// Dispatch routes a received frame: a response whose frame ID is pending
// resolves that request, everything else goes to Inbound.
func (r *Radio) Dispatch(f Frame) {
	r.metrics.received(f.Type())

	if resp, ok := responseOf(f); ok && resp.ID() != 0 {
		r.mu.Lock()
		p, ok := r.pending[resp.ID()]

		if ok {
			delete(r.pending, p.id)
			r.metrics.pending(len(r.pending))
			p.complete(resp, nil)
		}

		r.mu.Unlock()

		if ok {
			return
		}

		r.log.Debug("unmatched response", zap.Stringer("type", f.Type()), zap.Uint8("frame_id", resp.ID()))
	}

	r.metrics.unsolicited()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	select {
	case r.inbound <- f:
	default:
		r.metrics.dropped()
		r.log.Warn("inbound full, dropping frame", zap.Stringer("type", f.Type()))
	}
}

// responseOf reports whether the registry classes f as a response.
func responseOf(f Frame) (ResponseFrame, bool) {
	s, ok := registry[f.Type()]

	if !ok || s.Class != ClassResponse {
		return nil, false
	}

	resp, ok := f.(ResponseFrame)

	return resp, ok
}

// register records f as pending. r.mu must be held.
func (r *Radio) register(f RequestFrame) *Pending {
	p := &Pending{
		r:    r,
		id:   f.ID(),
		typ:  f.Type(),
		sent: time.Now(),
		done: make(chan struct{}),
	}

	r.pending[p.id] = p
	r.metrics.pending(len(r.pending))

	return p
}

// abandon removes p from the table if it is still there and fails it with
// err. It reports whether p was removed.
func (r *Radio) abandon(p *Pending, err error) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pending[p.id] != p {
		return false
	}

	delete(r.pending, p.id)
	r.metrics.pending(len(r.pending))
	p.complete(nil, err)

	return true
}

func (r *Radio) transmit(p *Pending, f RequestFrame, b []byte) error {
	if err := r.write(f, b); err != nil {
		r.abandon(p, err)
		return err
	}

	return nil
}

func (r *Radio) write(f RequestFrame, b []byte) error {
	r.wmu.Lock()
	defer r.wmu.Unlock()

	if _, err := r.cn.Write(b); err != nil {
		return fmt.Errorf("xbeeapi: write %s: %w", f.Type(), err)
	}

	r.metrics.sent(f.Type())
	r.log.Debug("sent frame", zap.Stringer("type", f.Type()), zap.Uint8("frame_id", f.ID()))

	return nil
}

// idleReader retries reads that return no data and no error, which serial
// drivers do when a read timeout expires on a quiet line.
type idleReader struct {
	r    io.Reader
	done <-chan struct{}
}

func (ir idleReader) Read(p []byte) (int, error) {
	for {
		n, err := ir.r.Read(p)

		if n > 0 || err != nil || len(p) == 0 {
			return n, err
		}

		select {
		case <-ir.done:
			return 0, ErrClosed
		default:
		}
	}
}

func (r *Radio) recv() {
	rd := NewReader(idleReader{r: r.cn, done: r.done})

	for {
		f, err := rd.Next()

		if err != nil {
			if IsFrameError(err) {
				r.metrics.frameError(err)
				r.log.Warn("dropped frame", zap.Error(err))
				continue
			}

			select {
			case <-r.done:
				return
			default:
			}

			r.log.Error("read failed", zap.Error(err))
			r.shutdown(fmt.Errorf("%w: read: %w", ErrClosed, err))

			return
		}

		select {
		case <-r.done:
			return
		default:
		}

		r.Dispatch(f)
	}
}

func (r *Radio) shutdown(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	r.closed = true
	r.err = err

	for id, p := range r.pending {
		delete(r.pending, id)
		p.complete(nil, err)
	}

	r.metrics.pending(0)

	close(r.inbound)
	close(r.done)
}

// Pending is a request awaiting its response. It resolves exactly once, with
// the response, a timeout or the radio shutting down.
type Pending struct {
	r    *Radio
	id   byte
	typ  FrameType
	sent time.Time
	done chan struct{}
	resp ResponseFrame
	err  error
}

func (p *Pending) ID() byte {
	return p.id
}

// Sent returns when the request was registered.
func (p *Pending) Sent() time.Time {
	return p.sent
}

// Done is closed once the request has resolved.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the response arrives or ctx ends. When ctx's deadline
// passes first the request is forgotten and a late response will be
// delivered to Inbound; the error wraps ErrResponseTimeout.
func (p *Pending) Wait(ctx context.Context) (ResponseFrame, error) {
	select {
	case <-p.done:
		return p.resp, p.err
	case <-ctx.Done():
	}

	err := ctx.Err()

	if errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("%w: %s frame id %d after %s",
			ErrResponseTimeout, p.typ, p.id, time.Since(p.sent).Round(time.Millisecond))
	}

	if p.r.abandon(p, err) && errors.Is(err, ErrResponseTimeout) {
		p.r.metrics.timeout()
		p.r.log.Info("response timeout", zap.Stringer("type", p.typ), zap.Uint8("frame_id", p.id))
	}

	// Either abandon failed the request or a response got there first.
	<-p.done

	return p.resp, p.err
}

// Await waits at most timeout for the response.
func (p *Pending) Await(timeout time.Duration) (ResponseFrame, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return p.Wait(ctx)
}

// complete resolves p. r.mu must be held and p must just have been removed
// from the table, which makes this happen once.
func (p *Pending) complete(resp ResponseFrame, err error) {
	p.resp = resp
	p.err = err
	close(p.done)
}
