package sai

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTypeOfOid(t *testing.T) {
	tests := []struct {
		oid     string
		want    ObjType
		wantErr error
	}{
		{"oid:0x21000000000000", ObjectTypeSwitch, nil},
		{FormatOid(33 << 48), ObjectTypeSwitch, nil},
		{"0x1000000000001", ObjectTypePort, nil},
		{FormatOid(MakeOid(ObjectTypeVLAN, 7)), ObjectTypeVLAN, nil},
		{"oid:0xffff000000000001", ObjectTypeNull, ErrMalformedOid},
		{"oid:xyz", ObjectTypeNull, ErrMalformedOid},
	}
	for _, tt := range tests {
		got, err := TypeOfOid(tt.oid)
		if !errors.Is(err, tt.wantErr) {
			t.Fatalf("TypeOfOid(%q) error: got %v, want %v", tt.oid, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("TypeOfOid(%q): got %v, want %v", tt.oid, got, tt.want)
		}
	}
}

func TestParseOid(t *testing.T) {
	tests := []struct {
		text string
		want uint64
	}{
		{"", 0},
		{"oid:0x0", 0},
		{"0x21000000000000", 0x21000000000000},
		{"oid:0x1000000000001", 0x1000000000001},
		{"42", 42},
	}
	for _, tt := range tests {
		got, err := ParseOid(tt.text)
		if err != nil {
			t.Fatalf("ParseOid(%q): %v", tt.text, err)
		}
		if got != tt.want {
			t.Errorf("ParseOid(%q): got %#x, want %#x", tt.text, got, tt.want)
		}
	}
}

func TestBuildKey(t *testing.T) {
	codec := Codec{Constants: DefaultConstants()}

	if _, err := BuildKey(codec, ObjectTypeRouteEntry, "oid:0x1", map[string]string{"vr_id": "oid:0x3"}); !errors.Is(err, ErrAmbiguousAddressing) {
		t.Errorf("BuildKey with oid and key: got %v, want %v", err, ErrAmbiguousAddressing)
	}

	got, err := BuildKey(codec, ObjectTypeSwitch, "", nil)
	if err != nil {
		t.Fatalf("BuildKey without oid or key: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("BuildKey without oid or key: got %v, want empty", got)
	}

	got, err = BuildKey(codec, ObjectTypePort, "oid:0x1000000000002", nil)
	if err != nil {
		t.Fatalf("BuildKey with oid: %v", err)
	}
	if diff := cmp.Diff(WireKey{"port_oid": uint64(0x1000000000002)}, got); diff != "" {
		t.Errorf("BuildKey with oid diff (-want +got):\n%s", diff)
	}

	got, err = BuildKey(codec, ObjectTypeRouteEntry, "", map[string]string{
		"switch_id":   "oid:0x21000000000000",
		"vr_id":       "oid:0x3000000000001",
		"destination": "10.0.0.0/8",
	})
	if err != nil {
		t.Fatalf("BuildKey with route key: %v", err)
	}
	want := WireKey{"route_entry": map[string]interface{}{
		"switch_id": uint64(0x21000000000000),
		"vr_id":     uint64(0x3000000000001),
		"destination": &IPPrefix{
			AddrFamily: AddrFamilyIPv4,
			Addr:       IPAddr{IP4: "10.0.0.0"},
			Mask:       IPAddr{IP4: "255.0.0.0"},
		},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BuildKey with route key diff (-want +got):\n%s", diff)
	}
}

func TestBuildKeyPartialRecord(t *testing.T) {
	got, err := BuildKey(Codec{}, ObjectTypeFDBEntry, "", map[string]string{
		"switch_id":   "oid:0x21000000000000",
		"mac_address": "00:00:00:00:00:01",
	})
	if err != nil {
		t.Fatalf("BuildKey: %v", err)
	}
	want := WireKey{"fdb_entry": map[string]interface{}{
		"switch_id":   uint64(0x21000000000000),
		"mac_address": "00:00:00:00:00:01",
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BuildKey diff (-want +got):\n%s", diff)
	}
}

func TestCanonicalKey(t *testing.T) {
	got := CanonicalKey(ObjectTypeFDBEntry, map[string]string{
		"switch_id":   "0x21000000000000",
		"mac_address": "00:AA:BB:CC:DD:EE",
		"bv_id":       "oid:0x0026000000000001",
	})
	want := map[string]string{
		"switch_id":   "oid:0x21000000000000",
		"mac_address": "00:aa:bb:cc:dd:ee",
		"bv_id":       "oid:0x26000000000001",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CanonicalKey diff (-want +got):\n%s", diff)
	}

	a := KeyAddress(ObjectTypeFDBEntry, want)
	b := KeyAddress(ObjectTypeFDBEntry, map[string]string{
		"switch_id": "0x21000000000000", "mac_address": "00:AA:BB:CC:DD:EE", "bv_id": "0x26000000000001",
	})
	if a.String() != b.String() {
		t.Errorf("String(): %q and %q differ", a, b)
	}
}

func TestBuildKeyInvalidField(t *testing.T) {
	codec := Codec{}
	tests := []struct {
		desc    string
		objType ObjType
		key     map[string]string
	}{
		{"unknown field", ObjectTypeFDBEntry, map[string]string{
			"switch_id": "oid:0x1", "mac_address": "00:00:00:00:00:01", "bv_id": "oid:0x2", "vlan": "10",
		}},
		{"bad value", ObjectTypeInsegEntry, map[string]string{
			"switch_id": "oid:0x1", "label": "label",
		}},
		{"oid object", ObjectTypePort, map[string]string{"switch_id": "oid:0x1"}},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if _, err := BuildKey(codec, tt.objType, "", tt.key); !errors.Is(err, ErrInvalidKeyField) {
				t.Errorf("BuildKey: got %v, want %v", err, ErrInvalidKeyField)
			}
		})
	}
}

func TestAddress(t *testing.T) {
	addr := Address{Oid: "oid:0x1000000000001", Type: ObjectTypePort}
	if _, err := addr.Resolve(); !errors.Is(err, ErrAmbiguousAddressing) {
		t.Errorf("Resolve of oid with type: got %v, want %v", err, ErrAmbiguousAddressing)
	}

	tests := []struct {
		addr Address
		want string
	}{
		{OidAddress("oid:0x1000000000001"), "SAI_OBJECT_TYPE_PORT:oid:0x1000000000001"},
		{KeyAddress(ObjectTypeInsegEntry, map[string]string{"switch_id": "oid:0x21000000000000", "label": "100"}),
			`SAI_OBJECT_TYPE_INSEG_ENTRY:{"label":"100","switch_id":"oid:0x21000000000000"}`},
		{KeyAddress(ObjectTypeSwitch, nil), "SAI_OBJECT_TYPE_SWITCH"},
	}
	for _, tt := range tests {
		if got := tt.addr.String(); got != tt.want {
			t.Errorf("String(): got %q, want %q", got, tt.want)
		}
	}
}
