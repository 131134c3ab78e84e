package sai

import (
	"encoding/json"
	"fmt"
	"math/big"
	"net"
	"reflect"
	"strconv"
	"strings"
)

// Codec converts between the textual attribute value form and the
// typed wire form. Symbolic constants are resolved through Constants.
type Codec struct {
	Constants Constants
}

// Codec returns a codec resolving symbols with the catalog constants.
func (c *Catalog) Codec() Codec {
	return Codec{Constants: c.constants}
}

func unsupported(t PrimitiveType) error {
	return fmt.Errorf("%w: %v", ErrUnsupportedType, t)
}

func invalid(text string, t PrimitiveType, cause error) error {
	if cause != nil {
		return fmt.Errorf("%w: %q as %v: %v", ErrInvalidValue, text, t, cause)
	}
	return fmt.Errorf("%w: %q as %v", ErrInvalidValue, text, t)
}

var intBits = map[PrimitiveType]int{
	TypeU8: 8, TypeS8: 8, TypeU16: 16, TypeS16: 16,
	TypeU32: 32, TypeS32: 32, TypeU64: 64, TypeS64: 64,
	TypePointer: 64, TypeOpaque: 32,
}

// listElem is the element kind of the numeric list types
var listElem = map[PrimitiveType]PrimitiveType{
	TypeU8List:   TypeU8,
	TypeS8List:   TypeS8,
	TypeU16List:  TypeU16,
	TypeS16List:  TypeS16,
	TypeU32List:  TypeU32,
	TypeS32List:  TypeS32,
	TypeVlanList: TypeU16,
}

// Encode converts text into the wire value of type t.
func (c Codec) Encode(text string, t PrimitiveType) (interface{}, error) {
	switch t {
	case TypeU8, TypeU16, TypeU32, TypeU64:
		v, err := c.parseInt(text, t)
		if err != nil {
			return nil, err
		}
		return uint64(v), nil
	case TypeS8, TypeS16, TypeS32, TypeS64, TypePointer, TypeOpaque:
		return c.parseInt(text, t)
	case TypeBool:
		// "0" is accepted as true alongside "true"
		return strings.EqualFold(text, "true") || text == "0", nil
	case TypeMAC, TypeIPv4, TypeIPv6, TypeChar:
		return text, nil
	case TypeObjectID:
		return ParseOid(text)
	case TypeIPAddress:
		return encodeIPAddress(text)
	case TypeIPPrefix:
		return encodeIPPrefix(text)
	case TypeObjectList:
		return encodeObjectList(text)
	case TypeU8List, TypeS8List, TypeU16List, TypeS16List, TypeU32List, TypeS32List, TypeVlanList:
		return c.encodeNumberList(text, listElem[t])
	case TypeU32Range, TypeS32Range:
		return c.encodeRange(text, t)
	case TypeACLCapability:
		return c.encodeACLCapability(text)
	case TypeACLResourceList, TypeMapList, TypeSystemPortConfigList:
		v, _ := NewWireValue(t)
		if err := json.Unmarshal([]byte(text), v); err != nil {
			return nil, invalid(text, t, err)
		}
		return v, nil
	}
	return nil, unsupported(t)
}

// Decode converts a wire value of type t into its textual form. Pointers
// returned by NewWireValue are accepted.
func (c Codec) Decode(wire interface{}, t PrimitiveType) (string, error) {
	if rv := reflect.ValueOf(wire); rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return "", fmt.Errorf("%w: nil %v", ErrInvalidValue, t)
		}
		wire = rv.Elem().Interface()
	}

	switch t {
	case TypeObjectList:
		v, ok := wire.(ObjectList)
		if !ok {
			break
		}
		return decodeObjectList(v), nil
	case TypeU8List, TypeS8List, TypeU16List, TypeS16List, TypeU32List, TypeS32List, TypeVlanList:
		v, ok := wire.(NumberList)
		if !ok {
			break
		}
		return decodeNumberList(v), nil
	case TypeACLCapability:
		v, ok := wire.(ACLCapability)
		if !ok {
			break
		}
		return strconv.FormatBool(v.IsActionListMandatory) + ":" + decodeNumberList(v.ActionList), nil
	case TypeACLResourceList, TypeMapList, TypeSystemPortConfigList:
		b, err := json.Marshal(wire)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		return string(b), nil
	case TypeObjectID:
		if v, ok := toUint64(wire); ok {
			return FormatOid(v), nil
		}
	case TypeIPAddress:
		if v, ok := wire.(IPAddress); ok {
			return v.Addr.String(), nil
		}
	case TypeIPPrefix:
		if v, ok := wire.(IPPrefix); ok {
			return decodeIPPrefix(v), nil
		}
	case TypeU32Range, TypeS32Range:
		if v, ok := wire.(Range); ok {
			return strconv.FormatInt(v.Min, 10) + "," + strconv.FormatInt(v.Max, 10), nil
		}
	case TypeBool:
		if v, ok := wire.(bool); ok {
			return strconv.FormatBool(v), nil
		}
	case TypeMAC, TypeIPv4, TypeIPv6, TypeChar:
		if v, ok := wire.(string); ok {
			return v, nil
		}
	case TypeU8, TypeU16, TypeU32, TypeU64:
		if v, ok := toUint64(wire); ok {
			return strconv.FormatUint(v, 10), nil
		}
	case TypeS8, TypeS16, TypeS32, TypeS64, TypePointer, TypeOpaque:
		if v, ok := toInt64(wire); ok {
			return strconv.FormatInt(v, 10), nil
		}
	default:
		return "", unsupported(t)
	}
	return "", fmt.Errorf("%w: %T is not a %v", ErrInvalidValue, wire, t)
}

// parseInt substitutes known symbolic constants, otherwise parses base
// 10, or base 16 with a 0x prefix.
func (c Codec) parseInt(text string, t PrimitiveType) (int64, error) {
	if v, ok := c.Constants[text]; ok {
		return v, nil
	}
	bits := intBits[t]
	s := strings.TrimSpace(text)
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s, base = s[2:], 16
	}
	switch t {
	case TypeU8, TypeU16, TypeU32, TypeU64:
		v, err := strconv.ParseUint(s, base, bits)
		if err != nil {
			return 0, invalid(text, t, err)
		}
		return int64(v), nil
	}
	v, err := strconv.ParseInt(s, base, bits)
	if err != nil {
		return 0, invalid(text, t, err)
	}
	return v, nil
}

// splitList splits "<count>:<e1>,<e2>" into the count and its elements.
// A bare "<count>" has no elements.
func splitList(text string) (uint32, []string, error) {
	countText, rest, _ := strings.Cut(text, ":")
	count, err := strconv.ParseUint(strings.TrimSpace(countText), 10, 32)
	if err != nil {
		return 0, nil, err
	}
	if rest == "" {
		return uint32(count), nil, nil
	}
	return uint32(count), strings.Split(rest, ","), nil
}

func encodeObjectList(text string) (*ObjectList, error) {
	count, items, err := splitList(text)
	if err != nil {
		return nil, invalid(text, TypeObjectList, err)
	}
	ids := make([]uint64, 0, len(items))
	for _, item := range items {
		id, err := ParseOid(item)
		if err != nil {
			return nil, invalid(text, TypeObjectList, err)
		}
		ids = append(ids, id)
	}
	return &ObjectList{Count: count, IDList: ids}, nil
}

// decodeObjectList renders "<count>:0x1,0x2"; a list without ids is
// rendered as its count alone.
func decodeObjectList(v ObjectList) string {
	ids := v.IDList
	if int(v.Count) < len(ids) {
		ids = ids[:v.Count]
	}
	if len(ids) == 0 {
		return strconv.FormatUint(uint64(v.Count), 10)
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = "0x" + strconv.FormatUint(id, 16)
	}
	return strconv.FormatUint(uint64(v.Count), 10) + ":" + strings.Join(parts, ",")
}

func (c Codec) encodeNumberList(text string, elem PrimitiveType) (*NumberList, error) {
	count, items, err := splitList(text)
	if err != nil {
		return nil, invalid(text, elem, err)
	}
	list := make([]int64, 0, len(items))
	for _, item := range items {
		n, err := c.parseInt(item, elem)
		if err != nil {
			return nil, err
		}
		list = append(list, n)
	}
	return &NumberList{Count: count, List: list}, nil
}

func decodeNumberList(v NumberList) string {
	list := v.List
	if int(v.Count) < len(list) {
		list = list[:v.Count]
	}
	if len(list) == 0 {
		return strconv.FormatUint(uint64(v.Count), 10)
	}
	parts := make([]string, len(list))
	for i, n := range list {
		parts[i] = strconv.FormatInt(n, 10)
	}
	return strconv.FormatUint(uint64(v.Count), 10) + ":" + strings.Join(parts, ",")
}

func (c Codec) encodeRange(text string, t PrimitiveType) (*Range, error) {
	minText, maxText, ok := strings.Cut(text, ",")
	if !ok {
		return nil, invalid(text, t, nil)
	}
	elem := TypeU32
	if t == TypeS32Range {
		elem = TypeS32
	}
	lo, err := c.parseInt(minText, elem)
	if err != nil {
		return nil, err
	}
	hi, err := c.parseInt(maxText, elem)
	if err != nil {
		return nil, err
	}
	return &Range{Min: lo, Max: hi}, nil
}

// encodeACLCapability parses "<mandatory>:<count>[:<actions>]".
func (c Codec) encodeACLCapability(text string) (*ACLCapability, error) {
	mandatory, rest, ok := strings.Cut(text, ":")
	if !ok {
		return nil, invalid(text, TypeACLCapability, nil)
	}
	list, err := c.encodeNumberList(rest, TypeS32)
	if err != nil {
		return nil, invalid(text, TypeACLCapability, err)
	}
	return &ACLCapability{
		IsActionListMandatory: strings.EqualFold(mandatory, "true"),
		ActionList:            *list,
	}, nil
}

// addrFamily infers the family from the literal; '.' is checked before
// ':' so v4-mapped literals count as IPv4.
func addrFamily(addr string) (int32, bool) {
	if strings.Contains(addr, ".") {
		return AddrFamilyIPv4, true
	}
	if strings.Contains(addr, ":") {
		return AddrFamilyIPv6, true
	}
	return 0, false
}

func newIPAddr(family int32, addr string) IPAddr {
	if family == AddrFamilyIPv4 {
		return IPAddr{IP4: addr}
	}
	return IPAddr{IP6: addr}
}

func (a IPAddr) String() string {
	if a.IP4 != "" {
		return a.IP4
	}
	return a.IP6
}

func encodeIPAddress(text string) (*IPAddress, error) {
	family, ok := addrFamily(text)
	if !ok {
		return nil, invalid(text, TypeIPAddress, nil)
	}
	return &IPAddress{AddrFamily: family, Addr: newIPAddr(family, text)}, nil
}

func encodeIPPrefix(text string) (*IPPrefix, error) {
	parts := strings.Split(text, "/")
	if len(parts) != 2 {
		return nil, invalid(text, TypeIPPrefix, nil)
	}
	family, ok := addrFamily(text)
	if !ok {
		return nil, invalid(text, TypeIPPrefix, nil)
	}
	mask := parts[1]
	if _, isAddr := addrFamily(mask); !isAddr {
		length, err := strconv.Atoi(mask)
		if err != nil {
			return nil, invalid(text, TypeIPPrefix, err)
		}
		bits := 32
		if family == AddrFamilyIPv6 {
			bits = 128
		}
		if mask, err = PrefixLenToMask(length, bits); err != nil {
			return nil, invalid(text, TypeIPPrefix, err)
		}
	}
	return &IPPrefix{
		AddrFamily: family,
		Addr:       newIPAddr(family, parts[0]),
		Mask:       newIPAddr(family, mask),
	}, nil
}

func decodeIPPrefix(v IPPrefix) string {
	mask := v.Mask.String()
	if ip := net.ParseIP(mask); ip != nil {
		m := net.IPMask(ip.To16())
		if v.AddrFamily == AddrFamilyIPv4 {
			m = net.IPMask(ip.To4())
		}
		if ones, bits := m.Size(); bits != 0 {
			return v.Addr.String() + "/" + strconv.Itoa(ones)
		}
	}
	return v.Addr.String() + "/" + mask
}

// PrefixLenToMask expands a CIDR prefix length into a mask: dotted quad
// for 32 bits, eight colon separated 16-bit groups for 128 bits.
func PrefixLenToMask(length, bits int) (string, error) {
	if length < 0 || length > bits || (bits != 32 && bits != 128) {
		return "", fmt.Errorf("prefix length %d out of range for %d bits", length, bits)
	}
	if bits == 32 {
		return net.IP(net.CIDRMask(length, 32)).String(), nil
	}
	full := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	mask := new(big.Int).Sub(full, new(big.Int).Rsh(full, uint(length)))
	hex := fmt.Sprintf("%032x", mask)
	groups := make([]string, 0, 8)
	for i := 0; i < len(hex); i += 4 {
		groups = append(groups, hex[i:i+4])
	}
	return strings.Join(groups, ":"), nil
}

func toUint64(v interface{}) (uint64, bool) {
	switch n := v.(type) {
	case uint64:
		return n, true
	case uint32:
		return uint64(n), true
	case uint16:
		return uint64(n), true
	case uint8:
		return uint64(n), true
	case int64:
		return uint64(n), true
	case int:
		return uint64(n), true
	case int32:
		return uint64(n), true
	}
	return 0, false
}

func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int16:
		return int64(n), true
	case int8:
		return int64(n), true
	case int:
		return int64(n), true
	case uint64:
		return int64(n), true
	case uint32:
		return int64(n), true
	}
	return 0, false
}

// ListCount returns the element count carried by text, a value of list
// or structure list type t.
func (c Codec) ListCount(text string, t PrimitiveType) (int, error) {
	v, err := c.Encode(text, t)
	if err != nil {
		return 0, err
	}
	switch l := v.(type) {
	case *ObjectList:
		return int(l.Count), nil
	case *NumberList:
		return int(l.Count), nil
	case *ACLCapability:
		return int(l.ActionList.Count), nil
	case *ACLResourceList:
		return int(l.Count), nil
	case *MapList:
		return int(l.Count), nil
	case *SystemPortConfigList:
		return int(l.Count), nil
	}
	return 0, unsupported(t)
}
