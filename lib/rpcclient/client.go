// Package rpcclient carries driver calls as length prefixed CBOR frames
// over one persistent stream connection.
package rpcclient

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"sync"
	"time"

	"github.com/cn-pmlabs/gosai/lib/codec"
	"github.com/cn-pmlabs/gosai/lib/log"
	"github.com/cn-pmlabs/gosai/sai"
)

// Defaults for Options left zero.
const (
	DefaultDialTimeout = 5 * time.Second
	DefaultCallTimeout = 30 * time.Second
	DefaultMaxRetries  = 3

	// NoRetry disables redialing when set as Options.MaxRetries.
	NoRetry = -1

	// MaxFrameSize bounds a single request or reply.
	MaxFrameSize = 4 * 1024 * 1024
)

// Request is one call frame.
type Request struct {
	Method string                 `cbor:"method"`
	Args   map[string]interface{} `cbor:"args"`
}

// CallError is returned when a call could not be completed on the wire.
type CallError struct {
	Method string
	Err    error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("rpc %s: %v", e.Method, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// ErrFrameTooLarge is returned for frames above MaxFrameSize.
var ErrFrameTooLarge = errors.New("frame too large")

// DialFunc opens the stream to the driver.
type DialFunc func(ctx context.Context, addr string) (net.Conn, error)

// Options tune a Client.
type Options struct {
	DialTimeout time.Duration
	CallTimeout time.Duration
	// MaxRetries is the number of redials after a failed dial. Zero
	// selects DefaultMaxRetries, NoRetry dials once.
	MaxRetries int
	// Dial replaces the TCP dialer.
	Dial DialFunc
}

func (o *Options) setDefaults() {
	if o.DialTimeout == 0 {
		o.DialTimeout = DefaultDialTimeout
	}
	if o.CallTimeout == 0 {
		o.CallTimeout = DefaultCallTimeout
	}
	if o.MaxRetries == 0 {
		o.MaxRetries = DefaultMaxRetries
	}
	if o.Dial == nil {
		timeout := o.DialTimeout
		o.Dial = func(ctx context.Context, addr string) (net.Conn, error) {
			dialer := net.Dialer{Timeout: timeout}
			return dialer.DialContext(ctx, "tcp", addr)
		}
	}
}

// Client is a sai.Transport. Calls are serialized on the connection; a
// broken connection is dropped and redialed by the next call.
type Client struct {
	addr string
	opts Options

	mu   sync.Mutex
	conn net.Conn
}

var _ sai.Transport = (*Client)(nil)

// Dial connects to the driver at addr.
func Dial(ctx context.Context, addr string, opts Options) (*Client, error) {
	opts.setDefaults()
	c := &Client{addr: addr, opts: opts}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.connect(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// connect dials with exponential backoff. Callers hold c.mu.
func (c *Client) connect(ctx context.Context) error {
	var err error
	for retryCnt := 0; ; retryCnt++ {
		var conn net.Conn
		conn, err = c.opts.Dial(ctx, c.addr)
		if err == nil {
			c.conn = conn
			return nil
		}
		if retryCnt >= c.opts.MaxRetries {
			break
		}
		delay := time.Second * time.Duration(math.Exp2(float64(retryCnt)))
		log.Info("%s Try to connect driver %s failed, retry after %v\n", log.ModuleClient, c.addr, delay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("connect driver %s: %w", c.addr, err)
}

func (c *Client) drop() {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

// Call sends method with args and waits for the reply.
func (c *Client) Call(ctx context.Context, method string, args map[string]interface{}) (sai.Reply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		if err := c.connect(ctx); err != nil {
			return sai.Reply{}, &CallError{Method: method, Err: err}
		}
	}

	deadline := time.Now().Add(c.opts.CallTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		c.drop()
		return sai.Reply{}, &CallError{Method: method, Err: err}
	}

	if err := WriteFrame(c.conn, &Request{Method: method, Args: args}); err != nil {
		c.drop()
		return sai.Reply{}, &CallError{Method: method, Err: fmt.Errorf("writing request: %w", err)}
	}
	var reply sai.Reply
	if err := ReadFrame(c.conn, &reply); err != nil {
		c.drop()
		return sai.Reply{}, &CallError{Method: method, Err: fmt.Errorf("reading reply: %w", err)}
	}
	if log.V(3) {
		if diag, err := codec.Diagnose(reply.Value); err == nil {
			log.V(3).Info("%s %s -> %d %s", log.ModuleClient, method, reply.Status, diag)
		}
	}
	return reply, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// WriteFrame writes v as a 4 byte big endian length followed by its
// CBOR encoding.
func WriteFrame(w io.Writer, v interface{}) error {
	payload, err := codec.Marshal(v)
	if err != nil {
		return err
	}
	if len(payload) > MaxFrameSize {
		return ErrFrameTooLarge
	}
	frame := make([]byte, 4+len(payload))
	binary.BigEndian.PutUint32(frame, uint32(len(payload)))
	copy(frame[4:], payload)
	_, err = w.Write(frame)
	return err
}

// ReadFrame reads one frame written by WriteFrame into v.
func ReadFrame(r io.Reader, v interface{}) error {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return err
	}
	size := binary.BigEndian.Uint32(header[:])
	if size > MaxFrameSize {
		return ErrFrameTooLarge
	}
	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return err
	}
	return codec.Unmarshal(payload, v)
}
