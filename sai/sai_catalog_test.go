package sai

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const testMetadata = `[
  {
    "objecttype": "SAI_OBJECT_TYPE_PORT",
    "attributes": [
      {"name": "SAI_PORT_ATTR_HW_LANE_LIST", "properties": {"type": "sai_u32_list_t"}},
      {"name": "SAI_PORT_ATTR_ADMIN_STATE", "properties": {"type": "bool"}},
      {"name": "SAI_PORT_ATTR_FEC_MODE", "properties": {"type": "sai_port_fec_mode_t"}}
    ]
  },
  {
    "objecttype": "SAI_OBJECT_TYPE_SWITCH",
    "attributes": [
      {"name": "SAI_SWITCH_ATTR_ACL_STAGE_INGRESS", "properties": {"type": "sai_acl_capability_t"}},
      {"name": "SAI_SWITCH_ATTR_PORT_LIST", "properties": {"type": "sai_object_list_t"}},
      {"name": "SAI_SWITCH_ATTR_SOMETHING", "properties": {"type": "mystery"}}
    ]
  }
]`

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog(strings.NewReader(testMetadata))
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}

	tests := []struct {
		attr string
		want PrimitiveType
	}{
		{"SAI_PORT_ATTR_HW_LANE_LIST", TypeU32List},
		{"SAI_PORT_ATTR_ADMIN_STATE", TypeBool},
		{"SAI_PORT_ATTR_FEC_MODE", TypeOpaque},
		{"SAI_SWITCH_ATTR_ACL_STAGE_INGRESS", TypeACLCapability},
		{"SAI_SWITCH_ATTR_PORT_LIST", TypeObjectList},
		{"SAI_SWITCH_ATTR_SOMETHING", TypeUnknown},
	}
	for _, tt := range tests {
		got, err := c.Lookup(tt.attr)
		if err != nil {
			t.Fatalf("Lookup(%s): %v", tt.attr, err)
		}
		if got != tt.want {
			t.Errorf("Lookup(%s): got %v, want %v", tt.attr, got, tt.want)
		}
	}

	if _, err := c.Lookup("SAI_PORT_ATTR_NOPE"); !errors.Is(err, ErrUnknownAttribute) {
		t.Errorf("Lookup of unknown attribute: got %v, want %v", err, ErrUnknownAttribute)
	}

	var names []string
	for _, a := range c.ObjectAttrs(ObjectTypePort) {
		names = append(names, a.Name)
	}
	want := []string{"SAI_PORT_ATTR_HW_LANE_LIST", "SAI_PORT_ATTR_ADMIN_STATE", "SAI_PORT_ATTR_FEC_MODE"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("ObjectAttrs(PORT) diff (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]ObjType{ObjectTypePort, ObjectTypeSwitch}, c.ObjectTypes()); diff != "" {
		t.Errorf("ObjectTypes diff (-want +got):\n%s", diff)
	}
	if v, ok := c.Constant("SAI_SWITCH_TYPE_NPU"); !ok || v != 1 {
		t.Errorf("Constant(SAI_SWITCH_TYPE_NPU): got %d %v", v, ok)
	}
}

func TestLoadCatalogMalformed(t *testing.T) {
	if _, err := LoadCatalog(strings.NewReader(`{"objecttype": 1}`)); err == nil {
		t.Error("LoadCatalog accepted a malformed document")
	}
}

func TestParsePrimitiveType(t *testing.T) {
	tests := []struct {
		name string
		want PrimitiveType
	}{
		{"sai_object_id_t", TypeObjectID},
		{"oid", TypeObjectID},
		{"u8", TypeU8},
		{"sai_ip_prefix_t", TypeIPPrefix},
		{"sai_map_list_t", TypeMapList},
		{"sai_port_eye_values_list_t", TypePortEyeValuesList},
		{"sai_packet_action_t", TypeOpaque},
		{"float", TypeUnknown},
	}
	for _, tt := range tests {
		if got := ParsePrimitiveType(tt.name); got != tt.want {
			t.Errorf("ParsePrimitiveType(%q): got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestParseObjType(t *testing.T) {
	tests := []struct {
		text string
		want ObjType
	}{
		{"PORT", ObjectTypePort},
		{"port", ObjectTypePort},
		{"SAI_OBJECT_TYPE_ROUTE_ENTRY", ObjectTypeRouteEntry},
		{"33", ObjectTypeSwitch},
	}
	for _, tt := range tests {
		got, err := ParseObjType(tt.text)
		if err != nil {
			t.Fatalf("ParseObjType(%q): %v", tt.text, err)
		}
		if got != tt.want {
			t.Errorf("ParseObjType(%q): got %v, want %v", tt.text, got, tt.want)
		}
	}
	for _, bad := range []string{"NULL", "0", "BOGUS", ""} {
		if _, err := ParseObjType(bad); !errors.Is(err, ErrUnknownObjectType) {
			t.Errorf("ParseObjType(%q): got %v, want %v", bad, err, ErrUnknownObjectType)
		}
	}
}

func TestLoadConstants(t *testing.T) {
	c, err := LoadConstants(strings.NewReader(`{"SAI_PORT_FEC_MODE_RS": 1, "SAI_SWITCH_TYPE_NPU": 9}`))
	if err != nil {
		t.Fatalf("LoadConstants: %v", err)
	}
	if c["SAI_PORT_FEC_MODE_RS"] != 1 || c["SAI_SWITCH_TYPE_NPU"] != 9 || c["SAI_PACKET_ACTION_TRAP"] != 4 {
		t.Errorf("LoadConstants: got %v", c)
	}
}
