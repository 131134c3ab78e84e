package sai

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// PrimitiveType is the wire kind of an attribute value.
type PrimitiveType int

// primitive types
const (
	TypeUnknown PrimitiveType = iota
	TypeBool
	TypeChar
	TypeU8
	TypeS8
	TypeU16
	TypeS16
	TypeU32
	TypeS32
	TypeU64
	TypeS64
	TypePointer
	TypeMAC
	TypeIPv4
	TypeIPv6
	TypeIPAddress
	TypeIPPrefix
	TypeObjectID
	TypeObjectList
	TypeU8List
	TypeS8List
	TypeU16List
	TypeS16List
	TypeU32List
	TypeS32List
	TypeVlanList
	TypeU32Range
	TypeS32Range
	TypeACLCapability
	TypeACLResourceList
	TypeMapList
	TypeSystemPortConfigList
	TypePortEyeValuesList
	TypePRBSRxState
	TypePortErrStatusList
	TypeFabricPortReachability
	// TypeOpaque is any other sai_*_t, mostly enums
	TypeOpaque
)

// typeNames holds the metadata (sai.json) name of every type first and
// the short rpc name second.
var typeNames = map[PrimitiveType][]string{
	TypeBool:                   {"bool", "booldata"},
	TypeChar:                   {"char", "chardata"},
	TypeU8:                     {"sai_uint8_t", "u8", "uint8_t"},
	TypeS8:                     {"sai_int8_t", "s8", "int8_t"},
	TypeU16:                    {"sai_uint16_t", "u16", "uint16_t"},
	TypeS16:                    {"sai_int16_t", "s16", "int16_t"},
	TypeU32:                    {"sai_uint32_t", "u32", "uint32_t"},
	TypeS32:                    {"sai_int32_t", "s32", "int32_t"},
	TypeU64:                    {"sai_uint64_t", "u64", "uint64_t"},
	TypeS64:                    {"sai_int64_t", "s64", "int64_t"},
	TypePointer:                {"sai_pointer_t", "ptr"},
	TypeMAC:                    {"sai_mac_t", "mac"},
	TypeIPv4:                   {"sai_ip4_t", "ipv4"},
	TypeIPv6:                   {"sai_ip6_t", "ipv6"},
	TypeIPAddress:              {"sai_ip_address_t", "ipaddr"},
	TypeIPPrefix:               {"sai_ip_prefix_t", "ipprefix"},
	TypeObjectID:               {"sai_object_id_t", "oid"},
	TypeObjectList:             {"sai_object_list_t", "objlist"},
	TypeU8List:                 {"sai_u8_list_t", "u8list"},
	TypeS8List:                 {"sai_s8_list_t", "s8list"},
	TypeU16List:                {"sai_u16_list_t", "u16list"},
	TypeS16List:                {"sai_s16_list_t", "s16list"},
	TypeU32List:                {"sai_u32_list_t", "u32list"},
	TypeS32List:                {"sai_s32_list_t", "s32list"},
	TypeVlanList:               {"sai_vlan_list_t", "vlanlist"},
	TypeU32Range:               {"sai_u32_range_t", "u32range"},
	TypeS32Range:               {"sai_s32_range_t", "s32range"},
	TypeACLCapability:          {"sai_acl_capability_t", "aclcapability"},
	TypeACLResourceList:        {"sai_acl_resource_list_t", "aclresource"},
	TypeMapList:                {"sai_map_list_t", "maplist"},
	TypeSystemPortConfigList:   {"sai_system_port_config_list_t", "sysportconfiglist"},
	TypePortEyeValuesList:      {"sai_port_eye_values_list_t", "porteyevalues"},
	TypePRBSRxState:            {"sai_prbs_rx_state_t", "rx_state"},
	TypePortErrStatusList:      {"sai_port_err_status_list_t", "porterror"},
	TypeFabricPortReachability: {"sai_fabric_port_reachability_t", "reachability"},
}

var typeByName = func() map[string]PrimitiveType {
	m := make(map[string]PrimitiveType)
	for t, names := range typeNames {
		for _, n := range names {
			m[n] = t
		}
	}
	return m
}()

// ParsePrimitiveType maps a metadata or rpc type name to its kind.
// Unlisted "sai_*" names are TypeOpaque; anything else is TypeUnknown.
func ParsePrimitiveType(name string) PrimitiveType {
	if t, ok := typeByName[name]; ok {
		return t
	}
	if strings.HasPrefix(name, "sai_") || name == "" {
		return TypeOpaque
	}
	return TypeUnknown
}

func (t PrimitiveType) String() string {
	if names, ok := typeNames[t]; ok {
		return names[0]
	}
	if t == TypeOpaque {
		return "opaque"
	}
	return "unknown(" + strconv.Itoa(int(t)) + ")"
}

// IsList reports whether values of t are count-prefixed lists or
// composite structures whose size must be negotiated.
func (t PrimitiveType) IsList() bool {
	switch t {
	case TypeObjectList, TypeU8List, TypeS8List, TypeU16List, TypeS16List,
		TypeU32List, TypeS32List, TypeVlanList, TypeACLCapability,
		TypeACLResourceList, TypeMapList, TypeSystemPortConfigList:
		return true
	}
	return false
}

// IsInteger reports whether t is a scalar integer kind.
func (t PrimitiveType) IsInteger() bool {
	switch t {
	case TypeU8, TypeS8, TypeU16, TypeS16, TypeU32, TypeS32, TypeU64, TypeS64, TypePointer:
		return true
	}
	return false
}

// AttrMeta describes one attribute of the metadata catalog.
type AttrMeta struct {
	Name    string
	ObjType ObjType
	Type    PrimitiveType
	// RawType is the type name as written in the metadata file
	RawType string
}

// Catalog maps attribute names to their primitive type. It is built once
// at start-up and never mutated, so concurrent readers need no locking.
type Catalog struct {
	attrs     map[string]AttrMeta
	byObj     map[ObjType][]AttrMeta
	constants Constants
}

type metaProperties struct {
	Type string `json:"type"`
}

type metaAttr struct {
	Name       string         `json:"name"`
	Properties metaProperties `json:"properties"`
}

type metaObject struct {
	ObjectType string     `json:"objecttype"`
	Attributes []metaAttr `json:"attributes"`
}

// LoadCatalog reads the JSON metadata document: an ordered array of
// per-object-type records, each with an attributes list of
// {name, properties:{type}}.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var objects []metaObject
	if err := json.NewDecoder(r).Decode(&objects); err != nil {
		return nil, fmt.Errorf("decode sai metadata: %w", err)
	}

	c := &Catalog{
		attrs:     make(map[string]AttrMeta),
		byObj:     make(map[ObjType][]AttrMeta),
		constants: DefaultConstants(),
	}
	for _, obj := range objects {
		for _, a := range obj.Attributes {
			objType := objTypeOfAttrName(a.Name)
			if obj.ObjectType != "" {
				if t, err := ParseObjType(obj.ObjectType); err == nil {
					objType = t
				}
			}
			meta := AttrMeta{
				Name:    a.Name,
				ObjType: objType,
				Type:    ParsePrimitiveType(a.Properties.Type),
				RawType: a.Properties.Type,
			}
			c.attrs[a.Name] = meta
			c.byObj[objType] = append(c.byObj[objType], meta)
		}
	}
	return c, nil
}

// LoadCatalogFile opens path and loads it with LoadCatalog.
func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sai metadata: %w", err)
	}
	defer f.Close()
	return LoadCatalog(f)
}

// NewCatalog builds a catalog from attribute name to type name pairs.
func NewCatalog(types map[string]string, constants Constants) *Catalog {
	c := &Catalog{
		attrs:     make(map[string]AttrMeta, len(types)),
		byObj:     make(map[ObjType][]AttrMeta),
		constants: constants,
	}
	if c.constants == nil {
		c.constants = DefaultConstants()
	}
	for name, typ := range types {
		meta := AttrMeta{
			Name:    name,
			ObjType: objTypeOfAttrName(name),
			Type:    ParsePrimitiveType(typ),
			RawType: typ,
		}
		c.attrs[name] = meta
		c.byObj[meta.ObjType] = append(c.byObj[meta.ObjType], meta)
	}
	return c
}

// WithConstants returns a copy of c resolving symbols with constants.
func (c *Catalog) WithConstants(constants Constants) *Catalog {
	cp := *c
	cp.constants = constants
	return &cp
}

// Lookup returns the primitive type of the named attribute.
func (c *Catalog) Lookup(name string) (PrimitiveType, error) {
	meta, err := c.Attr(name)
	if err != nil {
		return TypeUnknown, err
	}
	return meta.Type, nil
}

// Attr returns the full catalog record of the named attribute.
func (c *Catalog) Attr(name string) (AttrMeta, error) {
	meta, ok := c.attrs[name]
	if !ok {
		return AttrMeta{}, fmt.Errorf("%w: %s", ErrUnknownAttribute, name)
	}
	return meta, nil
}

// ObjectAttrs lists the attributes of objType in metadata order.
func (c *Catalog) ObjectAttrs(objType ObjType) []AttrMeta {
	return c.byObj[objType]
}

// ObjectTypes lists every object type that has attributes.
func (c *Catalog) ObjectTypes() []ObjType {
	types := make([]ObjType, 0, len(c.byObj))
	for t := range c.byObj {
		if t.Valid() {
			types = append(types, t)
		}
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Constant resolves a symbolic constant such as SAI_SWITCH_TYPE_NPU.
func (c *Catalog) Constant(name string) (int64, bool) {
	v, ok := c.constants[name]
	return v, ok
}

// objTypeOfAttrName extracts the object type from SAI_<TYPE>_ATTR_<NAME>.
func objTypeOfAttrName(name string) ObjType {
	if !strings.HasPrefix(name, "SAI_") {
		return ObjectTypeNull
	}
	idx := strings.Index(name, "_ATTR_")
	if idx < 0 {
		return ObjectTypeNull
	}
	t, err := ParseObjType(name[len("SAI_"):idx])
	if err != nil {
		return ObjectTypeNull
	}
	return t
}
