package sai

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// OidPrefix prefixes oids in their textual form
const OidPrefix = "oid:"

// oidTypeShift is the position of the object type ordinal in an oid
const oidTypeShift = 48

// ParseOid parses "oid:0x..", "0x.." or a decimal id. The empty string
// is the null object id.
func ParseOid(text string) (uint64, error) {
	s := strings.TrimPrefix(strings.TrimSpace(text), OidPrefix)
	if s == "" {
		return 0, nil
	}
	var (
		v   uint64
		err error
	)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err = strconv.ParseUint(s[2:], 16, 64)
	} else {
		v, err = strconv.ParseUint(s, 10, 64)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedOid, text)
	}
	return v, nil
}

// FormatOid renders id as "oid:0x..".
func FormatOid(id uint64) string {
	return OidPrefix + "0x" + strconv.FormatUint(id, 16)
}

// MakeOid builds the oid of an object of type t with the given index.
func MakeOid(t ObjType, index uint64) uint64 {
	return uint64(t)<<oidTypeShift | index&(1<<oidTypeShift-1)
}

// TypeOfOid decodes the object type held in the top 16 bits of oid. It
// never talks to the driver.
func TypeOfOid(oid string) (ObjType, error) {
	id, err := ParseOid(oid)
	if err != nil {
		return ObjectTypeNull, err
	}
	t := ObjType(id >> oidTypeShift)
	if !t.Valid() {
		return ObjectTypeNull, fmt.Errorf("%w: %q has object type %d", ErrMalformedOid, oid, int(t))
	}
	return t, nil
}

// KeyField is one field of an entry object key record.
type KeyField struct {
	Name string
	Type PrimitiveType
}

// KeyShapes are the key records of the entry object types, in wire
// field order.
var KeyShapes = map[ObjType][]KeyField{
	ObjectTypeFDBEntry: {
		{"switch_id", TypeObjectID},
		{"mac_address", TypeMAC},
		{"bv_id", TypeObjectID},
	},
	ObjectTypeMcastFDBEntry: {
		{"switch_id", TypeObjectID},
		{"mac_address", TypeMAC},
		{"bv_id", TypeObjectID},
	},
	ObjectTypeNeighborEntry: {
		{"switch_id", TypeObjectID},
		{"rif_id", TypeObjectID},
		{"ip_address", TypeIPAddress},
	},
	ObjectTypeRouteEntry: {
		{"switch_id", TypeObjectID},
		{"vr_id", TypeObjectID},
		{"destination", TypeIPPrefix},
	},
	ObjectTypeInsegEntry: {
		{"switch_id", TypeObjectID},
		{"label", TypeU32},
	},
	ObjectTypeL2MCEntry: {
		{"switch_id", TypeObjectID},
		{"bv_id", TypeObjectID},
		{"type", TypeS32},
		{"destination", TypeIPAddress},
		{"source", TypeIPAddress},
	},
	ObjectTypeIPMCEntry: {
		{"switch_id", TypeObjectID},
		{"vr_id", TypeObjectID},
		{"type", TypeS32},
		{"destination", TypeIPAddress},
		{"source", TypeIPAddress},
	},
	ObjectTypeMySIDEntry: {
		{"switch_id", TypeObjectID},
		{"vr_id", TypeObjectID},
		{"locator_block_len", TypeU8},
		{"locator_node_len", TypeU8},
		{"function_len", TypeU8},
		{"args_len", TypeU8},
		{"sid", TypeIPv6},
	},
	ObjectTypeNATEntry: {
		{"switch_id", TypeObjectID},
		{"vr_id", TypeObjectID},
		{"nat_type", TypeS32},
	},
}

// Address names the target of an operation: an oid, or an object type
// with an optional key record. Oid and Key are mutually exclusive.
type Address struct {
	Oid  string
	Type ObjType
	Key  map[string]string
}

// OidAddress addresses an object by oid.
func OidAddress(oid string) Address {
	return Address{Oid: oid}
}

// KeyAddress addresses an entry object by key record.
func KeyAddress(t ObjType, key map[string]string) Address {
	return Address{Type: t, Key: key}
}

// Resolve validates the addressing and returns the object type. An oid
// may not be combined with a key or an explicit object type.
func (a Address) Resolve() (ObjType, error) {
	if a.Oid != "" {
		if a.Key != nil || a.Type != ObjectTypeNull {
			return ObjectTypeNull, ErrAmbiguousAddressing
		}
		return TypeOfOid(a.Oid)
	}
	if !a.Type.Valid() {
		return ObjectTypeNull, fmt.Errorf("%w: %v", ErrUnknownObjectType, a.Type)
	}
	return a.Type, nil
}

// String renders the address the way the key-value store keys objects:
// "SAI_OBJECT_TYPE_PORT:oid:0x1..." or "SAI_OBJECT_TYPE_ROUTE_ENTRY:{...}".
func (a Address) String() string {
	t, err := a.Resolve()
	if err != nil {
		return fmt.Sprintf("invalid(%v)", err)
	}
	if a.Oid != "" {
		id, _ := ParseOid(a.Oid)
		return t.Symbol() + ":" + FormatOid(id)
	}
	if a.Key == nil {
		return t.Symbol()
	}
	b, _ := json.Marshal(CanonicalKey(t, a.Key))
	return t.Symbol() + ":" + string(b)
}

// CanonicalKey rewrites the fields of an entry key record into one
// spelling per value: oids as "oid:0x..." and MAC addresses in lower
// case. Fields that do not parse are kept as given.
func CanonicalKey(t ObjType, key map[string]string) map[string]string {
	types := make(map[string]PrimitiveType, len(KeyShapes[t]))
	for _, f := range KeyShapes[t] {
		types[f.Name] = f.Type
	}
	out := make(map[string]string, len(key))
	for field, text := range key {
		switch types[field] {
		case TypeObjectID:
			if id, err := ParseOid(text); err == nil {
				text = FormatOid(id)
			}
		case TypeMAC:
			text = strings.ToLower(text)
		}
		out[field] = text
	}
	return out
}

// WireKey is the keyword argument set addressing an object in an RPC
// call: {"<type>": {field: value}}, {"<type>_oid": id} or empty.
type WireKey map[string]interface{}

// BuildKey converts the addressing of an operation on objType into the
// RPC wire key. Every given key field is converted with the codec
// according to the key record shape of the object type; fields left out
// are left out of the record and take the driver's defaults.
func BuildKey(codec Codec, objType ObjType, oid string, key map[string]string) (WireKey, error) {
	if oid != "" && key != nil {
		return nil, ErrAmbiguousAddressing
	}
	name := objType.Name()
	if oid != "" {
		id, err := ParseOid(oid)
		if err != nil {
			return nil, err
		}
		return WireKey{name + "_oid": id}, nil
	}
	if key == nil {
		return WireKey{}, nil
	}

	shape, ok := KeyShapes[objType]
	if !ok {
		return nil, fmt.Errorf("%w: %v has no key record", ErrInvalidKeyField, objType)
	}
	known := make(map[string]bool, len(shape))
	for _, f := range shape {
		known[f.Name] = true
	}
	for _, field := range sortedKeys(key) {
		if !known[field] {
			return nil, fmt.Errorf("%w: %s is not a field of %s", ErrInvalidKeyField, field, name)
		}
	}

	record := make(map[string]interface{}, len(shape))
	for _, f := range shape {
		text, ok := key[f.Name]
		if !ok {
			continue
		}
		v, err := codec.Encode(text, f.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: %s.%s: %v", ErrInvalidKeyField, name, f.Name, err)
		}
		record[f.Name] = v
	}
	return WireKey{name: record}, nil
}

func sortedKeys(m map[string]string) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}
