package sai

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/cn-pmlabs/gosai/lib/log"
)

// probe values of the attribute types that need no size negotiation
var scalarProbes = map[PrimitiveType]string{
	TypeObjectID:  "0x0",
	TypeBool:      "true",
	TypeMAC:       "00:00:00:00:00:00",
	TypeIPAddress: "0.0.0.0",
	TypeIPv4:      "0.0.0.0&mask:0.0.0.0",
	TypeIPv6:      "::0.0.0.0&mask:0:0:0:0:0:0:0:0",
	TypeU32Range:  "0,0",
	TypeS32Range:  "0,0",
}

// unsupportedProbes cannot be sized by the harness and are answered
// with StatusNotSupportedStub without a driver call.
var unsupportedProbes = map[PrimitiveType]bool{
	TypePortEyeValuesList:      true,
	TypePRBSRxState:            true,
	TypePortErrStatusList:      true,
	TypeFabricPortReachability: true,
}

// MakeList builds "<length>:elem,elem,...". Lengths 0 and 1 both carry a
// single element.
func MakeList(length int, elem string) string {
	n := length
	if n < 1 {
		n = 1
	}
	return strconv.Itoa(length) + ":" + strings.Repeat(elem+",", n-1) + elem
}

// MakeACLCapabilityList builds an ACL capability buffer of length actions.
func MakeACLCapabilityList(length int) string {
	return "false:" + MakeList(length, "0")
}

// MakeACLResourceList builds a JSON ACL resource buffer of length records.
func MakeACLResourceList(length int) string {
	return makeJSONList(&ACLResourceList{
		Count: uint32(length),
		List:  make([]ACLResource, length),
	})
}

// MakeMapList builds a JSON map list buffer of length records.
func MakeMapList(length int) string {
	return makeJSONList(&MapList{
		Count: uint32(length),
		List:  make([]MapEntry, length),
	})
}

// MakeSystemPortConfigList builds a JSON system port config buffer of
// length records.
func MakeSystemPortConfigList(length int) string {
	return makeJSONList(&SystemPortConfigList{
		Count: uint32(length),
		List:  make([]SystemPortConfig, length),
	})
}

// makeJSONList serializes without whitespace; drivers may compare the
// buffer text.
func makeJSONList(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("sai: marshal %T: %v", v, err))
	}
	return string(b)
}

// ProbeBuffer returns the placeholder value of length elements used to
// query an attribute of list type t.
func ProbeBuffer(t PrimitiveType, length int) (string, error) {
	switch t {
	case TypeObjectList:
		return MakeList(length, "0x0"), nil
	case TypeU8List, TypeS8List, TypeU16List, TypeS16List, TypeU32List, TypeS32List, TypeVlanList:
		return MakeList(length, "0"), nil
	case TypeACLCapability:
		return MakeACLCapabilityList(length), nil
	case TypeACLResourceList:
		return MakeACLResourceList(length), nil
	case TypeMapList:
		return MakeMapList(length), nil
	case TypeSystemPortConfigList:
		return MakeSystemPortConfigList(length), nil
	}
	return "", unsupported(t)
}

// OverflowCapacity extracts the required buffer size from the value
// returned with SAI_STATUS_BUFFER_OVERFLOW:
//   - plain lists: the value is the count ("32" or "32:...")
//   - ACL capability: "<bool>:<count>"
//   - JSON composites: {"count":N,"list":null}
func OverflowCapacity(t PrimitiveType, value string) (int, error) {
	switch t {
	case TypeACLCapability:
		parts := strings.Split(value, ":")
		if len(parts) < 2 {
			return 0, fmt.Errorf("%w: acl capability overflow %q", ErrInvalidValue, value)
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0, fmt.Errorf("%w: acl capability overflow %q", ErrInvalidValue, value)
		}
		return n, nil
	case TypeACLResourceList, TypeMapList, TypeSystemPortConfigList:
		var payload struct {
			Count *int `json:"count"`
		}
		if err := json.Unmarshal([]byte(value), &payload); err != nil || payload.Count == nil {
			return 0, fmt.Errorf("%w: %v overflow %q", ErrInvalidValue, t, value)
		}
		return *payload.Count, nil
	case TypeObjectList, TypeU8List, TypeS8List, TypeU16List, TypeS16List, TypeU32List, TypeS32List, TypeVlanList:
		n, err := NewData("", value).Uint32()
		if err != nil {
			return 0, err
		}
		return int(n), nil
	}
	return 0, unsupported(t)
}

// OverflowValue renders the value a driver returns with
// SAI_STATUS_BUFFER_OVERFLOW when n elements are needed. It is the
// inverse of OverflowCapacity.
func OverflowValue(t PrimitiveType, n int) string {
	switch t {
	case TypeACLCapability:
		return "false:" + strconv.Itoa(n)
	case TypeACLResourceList, TypeMapList, TypeSystemPortConfigList:
		return `{"count":` + strconv.Itoa(n) + `,"list":null}`
	}
	return strconv.Itoa(n)
}

// GetAttr resolves the type of attr in the catalog and reads it with
// GetByType.
func (s *Sai) GetAttr(ctx context.Context, addr Address, attr string) (Status, *Data, error) {
	t, err := s.catalog.Lookup(attr)
	if err != nil {
		return "", nil, err
	}
	return s.GetByType(ctx, addr, attr, t)
}

// GetByType reads one attribute of type t. List and structure types are
// probed with a one element buffer first; on BUFFER_OVERFLOW the
// attribute is fetched once more with a buffer of the reported size.
// The second answer is final whatever its status.
func (s *Sai) GetByType(ctx context.Context, addr Address, attr string, t PrimitiveType) (Status, *Data, error) {
	if unsupportedProbes[t] {
		return StatusNotSupportedStub, nil, nil
	}
	if v, ok := scalarProbes[t]; ok {
		return s.getOne(ctx, addr, attr, v)
	}
	if !t.IsList() {
		if t == TypeUnknown {
			return "", nil, fmt.Errorf("get %s: %w", attr, unsupported(t))
		}
		return s.getOne(ctx, addr, attr, "")
	}

	probe, err := ProbeBuffer(t, 1)
	if err != nil {
		return "", nil, err
	}
	status, data, err := s.getOne(ctx, addr, attr, probe)
	if err != nil || status != StatusBufferOverflow {
		return status, data, err
	}

	length, err := OverflowCapacity(t, data.Value(0))
	if err != nil {
		return status, data, fmt.Errorf("get %s: %w", attr, err)
	}
	log.V(2).Info("%s %v %s overflow, fetch %d", log.ModuleSAI, addr, attr, length)
	buffer, err := ProbeBuffer(t, length)
	if err != nil {
		return "", nil, err
	}
	return s.getOne(ctx, addr, attr, buffer)
}

// getOne reads a single attribute. Its status already says everything a
// driver failure would, so the failure list is dropped.
func (s *Sai) getOne(ctx context.Context, addr Address, attr, value string) (Status, *Data, error) {
	status, data, err := s.store.Get(ctx, addr, []string{attr, value})
	if _, ok := DriverFailures(err); ok {
		err = nil
	}
	return status, data, err
}

// GetList reads a list attribute whose elements look like elem and
// returns the elements. Any final status other than success is an error.
func (s *Sai) GetList(ctx context.Context, addr Address, attr, elem string) ([]string, error) {
	status, data, err := s.getOne(ctx, addr, attr, "1:"+elem)
	if err != nil {
		return nil, err
	}
	if status == StatusBufferOverflow {
		length, err := data.Uint32()
		if err != nil {
			return nil, fmt.Errorf("get_list %s: %w", attr, err)
		}
		status, data, err = s.getOne(ctx, addr, attr, MakeList(int(length), elem))
		if err != nil {
			return nil, err
		}
	}
	if !status.Success() {
		return nil, fmt.Errorf("get_list(%v, %s, %s) --> %s", addr, attr, elem, status)
	}
	return data.ToList(), nil
}
