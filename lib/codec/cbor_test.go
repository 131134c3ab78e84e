package codec

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMarshalDeterministic(t *testing.T) {
	args := map[string]interface{}{
		"vr_id":    uint64(3),
		"port_oid": uint64(1),
		"mtu":      uint64(9100),
	}
	first, err := Marshal(args)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Marshal(args)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("Marshal is not deterministic: %x != %x", first, again)
		}
	}
}

func TestUnmarshalMaps(t *testing.T) {
	data, err := Marshal(map[string]interface{}{
		"route_entry": map[string]interface{}{"vr_id": uint64(3), "destination": "10.0.0.0/8"},
	})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got interface{}
	if err := Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := map[string]interface{}{
		"route_entry": map[string]interface{}{"vr_id": uint64(3), "destination": "10.0.0.0/8"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Unmarshal diff (-want +got):\n%s", diff)
	}
}

func TestRawMessageDeferred(t *testing.T) {
	type reply struct {
		Status int32      `cbor:"status"`
		Value  RawMessage `cbor:"value,omitempty"`
	}
	value, err := Marshal([]uint64{1, 2})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	data, err := Marshal(reply{Status: -8, Value: value})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var r reply
	if err := Unmarshal(data, &r); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	var counters []uint64
	if err := Unmarshal(r.Value, &counters); err != nil {
		t.Fatalf("Unmarshal value: %v", err)
	}
	if r.Status != -8 || !cmp.Equal([]uint64{1, 2}, counters) {
		t.Errorf("got status %d counters %v", r.Status, counters)
	}
	if diag, err := Diagnose(r.Value); err != nil || diag != "[1, 2]" {
		t.Errorf("Diagnose: got %q %v", diag, err)
	}
}
