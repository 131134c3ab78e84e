package rpcclient

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"net"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cn-pmlabs/gosai/lib/codec"
	"github.com/cn-pmlabs/gosai/sai"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	req := &Request{Method: "get_port_attribute", Args: map[string]interface{}{
		"port_oid": uint64(0x1000000000001),
		"mtu":      nil,
	}}
	if err := WriteFrame(&buf, req); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	if size := binary.BigEndian.Uint32(buf.Bytes()); int(size) != buf.Len()-4 {
		t.Errorf("frame header: got %d, want %d", size, buf.Len()-4)
	}
	var got Request
	if err := ReadFrame(&buf, &got); err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if diff := cmp.Diff(*req, got); diff != "" {
		t.Errorf("round trip diff (-want +got):\n%s", diff)
	}
}

func TestReadFrameTooLarge(t *testing.T) {
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], MaxFrameSize+1)
	var reply sai.Reply
	if err := ReadFrame(bytes.NewReader(header[:]), &reply); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("ReadFrame: got %v, want %v", err, ErrFrameTooLarge)
	}
}

// echoServer answers every request with its method name.
func echoServer(conn net.Conn, replies int) {
	defer conn.Close()
	for i := 0; i < replies; i++ {
		var req Request
		if err := ReadFrame(conn, &req); err != nil {
			return
		}
		value, _ := codec.Marshal(req.Method)
		if err := WriteFrame(conn, sai.Reply{Value: value}); err != nil {
			return
		}
	}
}

func TestCallRedials(t *testing.T) {
	dials := 0
	opts := Options{Dial: func(ctx context.Context, addr string) (net.Conn, error) {
		dials++
		client, server := net.Pipe()
		// the first connection breaks after one call
		go echoServer(server, dials)
		return client, nil
	}}
	c, err := Dial(context.Background(), "pipe", opts)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()

	call := func(method string) (string, error) {
		reply, err := c.Call(context.Background(), method, nil)
		if err != nil {
			return "", err
		}
		var got string
		if err := codec.Unmarshal(reply.Value, &got); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		return got, nil
	}

	if got, err := call("create_port"); err != nil || got != "create_port" {
		t.Fatalf("first Call: got %q %v", got, err)
	}
	_, err = call("remove_port")
	var callErr *CallError
	if !errors.As(err, &callErr) || callErr.Method != "remove_port" {
		t.Fatalf("Call on a closed connection: got %v, want a *CallError", err)
	}
	if got, err := call("get_port_attribute"); err != nil || got != "get_port_attribute" {
		t.Fatalf("Call after redial: got %q %v", got, err)
	}
	if dials != 2 {
		t.Errorf("dialed %d times, want 2", dials)
	}
}

func TestDialCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dials := 0
	_, err := Dial(ctx, "pipe", Options{Dial: func(ctx context.Context, addr string) (net.Conn, error) {
		dials++
		return nil, errors.New("connection refused")
	}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Dial: got %v, want %v", err, context.Canceled)
	}
	if dials != 1 {
		t.Errorf("dialed %d times, want 1", dials)
	}
}

func TestDialNoRetry(t *testing.T) {
	refused := errors.New("connection refused")
	tests := []struct {
		retries int
		want    int
	}{
		{NoRetry, 1},
		{1, 2},
	}
	for _, tt := range tests {
		dials := 0
		opts := Options{MaxRetries: tt.retries, Dial: func(ctx context.Context, addr string) (net.Conn, error) {
			dials++
			return nil, refused
		}}
		if _, err := Dial(context.Background(), "pipe", opts); !errors.Is(err, refused) {
			t.Errorf("Dial(retries %d): got %v, want %v", tt.retries, err, refused)
		}
		if dials != tt.want {
			t.Errorf("Dial(retries %d): dialed %d times, want %d", tt.retries, dials, tt.want)
		}
	}
}
