package sai

import (
	"encoding/json"
	"strconv"
)

// Wire values are the typed forms exchanged with the RPC driver. Field
// names follow the sai_thrift structures; json tags double as CBOR keys.

// IP address families
const (
	AddrFamilyIPv4 int32 = 0
	AddrFamilyIPv6 int32 = 1
)

// ObjectList is sai_object_list_t
type ObjectList struct {
	Count  uint32   `json:"count"`
	IDList []uint64 `json:"idlist"`
}

// NumberList is any of the u8/s8/u16/s16/u32/s32/vlan lists
type NumberList struct {
	Count uint32  `json:"count"`
	List  []int64 `json:"list"`
}

// Range is sai_u32_range_t / sai_s32_range_t
type Range struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// IPAddr holds one of the address forms
type IPAddr struct {
	IP4 string `json:"ip4,omitempty"`
	IP6 string `json:"ip6,omitempty"`
}

// IPAddress is sai_ip_address_t
type IPAddress struct {
	AddrFamily int32  `json:"addr_family"`
	Addr       IPAddr `json:"addr"`
}

// IPPrefix is sai_ip_prefix_t
type IPPrefix struct {
	AddrFamily int32  `json:"addr_family"`
	Addr       IPAddr `json:"addr"`
	Mask       IPAddr `json:"mask"`
}

// ACLCapability is sai_acl_capability_t
type ACLCapability struct {
	IsActionListMandatory bool       `json:"is_action_list_mandatory"`
	ActionList            NumberList `json:"action_list"`
}

// Field is a JSON record field that may arrive as a string or a number
// and is always written back as a string.
type Field string

// UnmarshalJSON accepts strings, numbers and booleans.
func (f *Field) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = Field(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*f = Field(n.String())
		return nil
	}
	var v bool
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = Field(strconv.FormatBool(v))
	return nil
}

// ACLResource is sai_acl_resource_t. Field order is the wire order.
type ACLResource struct {
	AvailNum  Field `json:"avail_num"`
	BindPoint Field `json:"bind_point"`
	Stage     Field `json:"stage"`
}

// ACLResourceList is sai_acl_resource_list_t
type ACLResourceList struct {
	Count uint32        `json:"count"`
	List  []ACLResource `json:"list"`
}

// MapEntry is sai_map_t
type MapEntry struct {
	Key   int32 `json:"key"`
	Value int32 `json:"value"`
}

// MapList is sai_map_list_t
type MapList struct {
	Count uint32     `json:"count"`
	List  []MapEntry `json:"list"`
}

// SystemPortConfig is sai_system_port_config_t. Field order is the wire order.
type SystemPortConfig struct {
	PortID                Field `json:"port_id"`
	AttachedSwitchID      Field `json:"attached_switch_id"`
	AttachedCoreIndex     Field `json:"attached_core_index"`
	AttachedCorePortIndex Field `json:"attached_core_port_index"`
	Speed                 Field `json:"speed"`
	NumVoq                Field `json:"num_voq"`
}

// SystemPortConfigList is sai_system_port_config_list_t
type SystemPortConfigList struct {
	Count uint32             `json:"count"`
	List  []SystemPortConfig `json:"list"`
}

// NewWireValue returns a pointer to the zero wire value of t, ready to be
// decoded into.
func NewWireValue(t PrimitiveType) (interface{}, error) {
	switch t {
	case TypeBool:
		return new(bool), nil
	case TypeChar, TypeMAC, TypeIPv4, TypeIPv6:
		return new(string), nil
	case TypeU8, TypeU16, TypeU32, TypeU64, TypeObjectID:
		return new(uint64), nil
	case TypeS8, TypeS16, TypeS32, TypeS64, TypePointer, TypeOpaque:
		return new(int64), nil
	case TypeIPAddress:
		return new(IPAddress), nil
	case TypeIPPrefix:
		return new(IPPrefix), nil
	case TypeObjectList:
		return new(ObjectList), nil
	case TypeU8List, TypeS8List, TypeU16List, TypeS16List, TypeU32List, TypeS32List, TypeVlanList:
		return new(NumberList), nil
	case TypeU32Range, TypeS32Range:
		return new(Range), nil
	case TypeACLCapability:
		return new(ACLCapability), nil
	case TypeACLResourceList:
		return new(ACLResourceList), nil
	case TypeMapList:
		return new(MapList), nil
	case TypeSystemPortConfigList:
		return new(SystemPortConfigList), nil
	}
	return nil, unsupported(t)
}
