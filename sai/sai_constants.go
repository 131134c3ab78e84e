package sai

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Constants maps symbolic SAI header constants to their numeric value.
type Constants map[string]int64

// DefaultConstants returns the symbols the harness itself relies on.
func DefaultConstants() Constants {
	return Constants{
		"SAI_NULL_OBJECT_ID":                    0,
		"SAI_IP_ADDR_FAMILY_IPV4":               0,
		"SAI_IP_ADDR_FAMILY_IPV6":               1,
		"SAI_SWITCH_TYPE_NPU":                   1,
		"SAI_SWITCH_TYPE_PHY":                   2,
		"SAI_SWITCH_TYPE_VOQ":                   3,
		"SAI_SWITCH_TYPE_FABRIC":                4,
		"SAI_PACKET_ACTION_DROP":                0,
		"SAI_PACKET_ACTION_FORWARD":             1,
		"SAI_PACKET_ACTION_COPY":                2,
		"SAI_PACKET_ACTION_COPY_CANCEL":         3,
		"SAI_PACKET_ACTION_TRAP":                4,
		"SAI_PACKET_ACTION_LOG":                 5,
		"SAI_PACKET_ACTION_DENY":                6,
		"SAI_PACKET_ACTION_TRANSIT":             7,
		"SAI_PORT_ADMIN_STATE_DOWN":             0,
		"SAI_PORT_OPER_STATUS_UNKNOWN":          0,
		"SAI_PORT_OPER_STATUS_UP":               1,
		"SAI_PORT_OPER_STATUS_DOWN":             2,
		"SAI_VLAN_TAGGING_MODE_UNTAGGED":        0,
		"SAI_VLAN_TAGGING_MODE_TAGGED":          1,
		"SAI_VLAN_TAGGING_MODE_PRIORITY_TAGGED": 2,
		"SAI_BRIDGE_PORT_TYPE_PORT":             0,
		"SAI_BRIDGE_PORT_TYPE_SUB_PORT":         1,
		"SAI_BRIDGE_PORT_TYPE_1Q_ROUTER":        2,
		"SAI_BRIDGE_PORT_TYPE_1D_ROUTER":        3,
		"SAI_BRIDGE_PORT_TYPE_TUNNEL":           4,
		"SAI_FDB_ENTRY_TYPE_DYNAMIC":            0,
		"SAI_FDB_ENTRY_TYPE_STATIC":             1,
		"SAI_ROUTER_INTERFACE_TYPE_PORT":        0,
		"SAI_ROUTER_INTERFACE_TYPE_VLAN":        1,
		"SAI_ROUTER_INTERFACE_TYPE_LOOPBACK":    2,
		"SAI_ACL_STAGE_INGRESS":                 0,
		"SAI_ACL_STAGE_EGRESS":                  1,
	}
}

// LoadConstants reads a flat JSON object of name to number and merges it
// over the defaults.
func LoadConstants(r io.Reader) (Constants, error) {
	var extra map[string]int64
	if err := json.NewDecoder(r).Decode(&extra); err != nil {
		return nil, fmt.Errorf("decode sai constants: %w", err)
	}
	c := DefaultConstants()
	for k, v := range extra {
		c[k] = v
	}
	return c, nil
}

// LoadConstantsFile opens path and loads it with LoadConstants.
func LoadConstantsFile(path string) (Constants, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sai constants: %w", err)
	}
	defer f.Close()
	return LoadConstants(f)
}
