package sai

import (
	"strconv"
	"strings"
)

// ObjType is the SAI object type ordinal. It is the value carried in the
// top 16 bits of every oid.
type ObjType int

// SAI object types
const (
	ObjectTypeNull ObjType = iota
	ObjectTypePort
	ObjectTypeLAG
	ObjectTypeVirtualRouter
	ObjectTypeNextHop
	ObjectTypeNextHopGroup
	ObjectTypeRouterInterface
	ObjectTypeACLTable
	ObjectTypeACLEntry
	ObjectTypeACLCounter
	ObjectTypeACLRange
	ObjectTypeACLTableGroup
	ObjectTypeACLTableGroupMember
	ObjectTypeHostif
	ObjectTypeMirrorSession
	ObjectTypeSamplepacket
	ObjectTypeSTP
	ObjectTypeHostifTrapGroup
	ObjectTypePolicer
	ObjectTypeWRED
	ObjectTypeQoSMap
	ObjectTypeQueue
	ObjectTypeScheduler
	ObjectTypeSchedulerGroup
	ObjectTypeBufferPool
	ObjectTypeBufferProfile
	ObjectTypeIngressPriorityGroup
	ObjectTypeLAGMember
	ObjectTypeHash
	ObjectTypeUDF
	ObjectTypeUDFMatch
	ObjectTypeUDFGroup
	ObjectTypeFDBEntry
	ObjectTypeSwitch
	ObjectTypeHostifTrap
	ObjectTypeHostifTableEntry
	ObjectTypeNeighborEntry
	ObjectTypeRouteEntry
	ObjectTypeVLAN
	ObjectTypeVLANMember
	ObjectTypeHostifPacket
	ObjectTypeTunnelMap
	ObjectTypeTunnel
	ObjectTypeTunnelTermTableEntry
	ObjectTypeFDBFlush
	ObjectTypeNextHopGroupMember
	ObjectTypeSTPPort
	ObjectTypeRPFGroup
	ObjectTypeRPFGroupMember
	ObjectTypeL2MCGroup
	ObjectTypeL2MCGroupMember
	ObjectTypeIPMCGroup
	ObjectTypeIPMCGroupMember
	ObjectTypeL2MCEntry
	ObjectTypeIPMCEntry
	ObjectTypeMcastFDBEntry
	ObjectTypeHostifUserDefinedTrap
	ObjectTypeBridge
	ObjectTypeBridgePort
	ObjectTypeTunnelMapEntry
	ObjectTypeTAM
	ObjectTypeSRv6Sidlist
	ObjectTypePortPool
	ObjectTypeInsegEntry
	ObjectTypeDTel
	ObjectTypeDTelQueueReport
	ObjectTypeDTelINTSession
	ObjectTypeDTelReportSession
	ObjectTypeDTelEvent
	ObjectTypeBFDSession
	ObjectTypeIsolationGroup
	ObjectTypeIsolationGroupMember
	ObjectTypeTAMMathFunc
	ObjectTypeTAMReport
	ObjectTypeTAMEventThreshold
	ObjectTypeTAMTelType
	ObjectTypeTAMTransport
	ObjectTypeTAMTelemetry
	ObjectTypeTAMCollector
	ObjectTypeTAMEventAction
	ObjectTypeTAMEvent
	ObjectTypeNATZoneCounter
	ObjectTypeNATEntry
	ObjectTypeTAMINT
	ObjectTypeCounter
	ObjectTypeDebugCounter
	ObjectTypePortConnector
	ObjectTypePortSerdes
	ObjectTypeMacsec
	ObjectTypeMacsecPort
	ObjectTypeMacsecFlow
	ObjectTypeMacsecSC
	ObjectTypeMacsecSA
	ObjectTypeSystemPort
	ObjectTypeFineGrainedHashField
	ObjectTypeSwitchTunnel
	ObjectTypeMySIDEntry
	ObjectTypeMyMAC
	ObjectTypeNextHopGroupMap
	ObjectTypeIPsec
	ObjectTypeIPsecPort
	ObjectTypeIPsecSA
	ObjectTypeMax
)

// ObjectOrder is object name order
var ObjectOrder = []string{
	ObjectTypeNull:                  "NULL",
	ObjectTypePort:                  "PORT",
	ObjectTypeLAG:                   "LAG",
	ObjectTypeVirtualRouter:         "VIRTUAL_ROUTER",
	ObjectTypeNextHop:               "NEXT_HOP",
	ObjectTypeNextHopGroup:          "NEXT_HOP_GROUP",
	ObjectTypeRouterInterface:       "ROUTER_INTERFACE",
	ObjectTypeACLTable:              "ACL_TABLE",
	ObjectTypeACLEntry:              "ACL_ENTRY",
	ObjectTypeACLCounter:            "ACL_COUNTER",
	ObjectTypeACLRange:              "ACL_RANGE",
	ObjectTypeACLTableGroup:         "ACL_TABLE_GROUP",
	ObjectTypeACLTableGroupMember:   "ACL_TABLE_GROUP_MEMBER",
	ObjectTypeHostif:                "HOSTIF",
	ObjectTypeMirrorSession:         "MIRROR_SESSION",
	ObjectTypeSamplepacket:          "SAMPLEPACKET",
	ObjectTypeSTP:                   "STP",
	ObjectTypeHostifTrapGroup:       "HOSTIF_TRAP_GROUP",
	ObjectTypePolicer:               "POLICER",
	ObjectTypeWRED:                  "WRED",
	ObjectTypeQoSMap:                "QOS_MAP",
	ObjectTypeQueue:                 "QUEUE",
	ObjectTypeScheduler:             "SCHEDULER",
	ObjectTypeSchedulerGroup:        "SCHEDULER_GROUP",
	ObjectTypeBufferPool:            "BUFFER_POOL",
	ObjectTypeBufferProfile:         "BUFFER_PROFILE",
	ObjectTypeIngressPriorityGroup:  "INGRESS_PRIORITY_GROUP",
	ObjectTypeLAGMember:             "LAG_MEMBER",
	ObjectTypeHash:                  "HASH",
	ObjectTypeUDF:                   "UDF",
	ObjectTypeUDFMatch:              "UDF_MATCH",
	ObjectTypeUDFGroup:              "UDF_GROUP",
	ObjectTypeFDBEntry:              "FDB_ENTRY",
	ObjectTypeSwitch:                "SWITCH",
	ObjectTypeHostifTrap:            "HOSTIF_TRAP",
	ObjectTypeHostifTableEntry:      "HOSTIF_TABLE_ENTRY",
	ObjectTypeNeighborEntry:         "NEIGHBOR_ENTRY",
	ObjectTypeRouteEntry:            "ROUTE_ENTRY",
	ObjectTypeVLAN:                  "VLAN",
	ObjectTypeVLANMember:            "VLAN_MEMBER",
	ObjectTypeHostifPacket:          "HOSTIF_PACKET",
	ObjectTypeTunnelMap:             "TUNNEL_MAP",
	ObjectTypeTunnel:                "TUNNEL",
	ObjectTypeTunnelTermTableEntry:  "TUNNEL_TERM_TABLE_ENTRY",
	ObjectTypeFDBFlush:              "FDB_FLUSH",
	ObjectTypeNextHopGroupMember:    "NEXT_HOP_GROUP_MEMBER",
	ObjectTypeSTPPort:               "STP_PORT",
	ObjectTypeRPFGroup:              "RPF_GROUP",
	ObjectTypeRPFGroupMember:        "RPF_GROUP_MEMBER",
	ObjectTypeL2MCGroup:             "L2MC_GROUP",
	ObjectTypeL2MCGroupMember:       "L2MC_GROUP_MEMBER",
	ObjectTypeIPMCGroup:             "IPMC_GROUP",
	ObjectTypeIPMCGroupMember:       "IPMC_GROUP_MEMBER",
	ObjectTypeL2MCEntry:             "L2MC_ENTRY",
	ObjectTypeIPMCEntry:             "IPMC_ENTRY",
	ObjectTypeMcastFDBEntry:         "MCAST_FDB_ENTRY",
	ObjectTypeHostifUserDefinedTrap: "HOSTIF_USER_DEFINED_TRAP",
	ObjectTypeBridge:                "BRIDGE",
	ObjectTypeBridgePort:            "BRIDGE_PORT",
	ObjectTypeTunnelMapEntry:        "TUNNEL_MAP_ENTRY",
	ObjectTypeTAM:                   "TAM",
	ObjectTypeSRv6Sidlist:           "SRV6_SIDLIST",
	ObjectTypePortPool:              "PORT_POOL",
	ObjectTypeInsegEntry:            "INSEG_ENTRY",
	ObjectTypeDTel:                  "DTEL",
	ObjectTypeDTelQueueReport:       "DTEL_QUEUE_REPORT",
	ObjectTypeDTelINTSession:        "DTEL_INT_SESSION",
	ObjectTypeDTelReportSession:     "DTEL_REPORT_SESSION",
	ObjectTypeDTelEvent:             "DTEL_EVENT",
	ObjectTypeBFDSession:            "BFD_SESSION",
	ObjectTypeIsolationGroup:        "ISOLATION_GROUP",
	ObjectTypeIsolationGroupMember:  "ISOLATION_GROUP_MEMBER",
	ObjectTypeTAMMathFunc:           "TAM_MATH_FUNC",
	ObjectTypeTAMReport:             "TAM_REPORT",
	ObjectTypeTAMEventThreshold:     "TAM_EVENT_THRESHOLD",
	ObjectTypeTAMTelType:            "TAM_TEL_TYPE",
	ObjectTypeTAMTransport:          "TAM_TRANSPORT",
	ObjectTypeTAMTelemetry:          "TAM_TELEMETRY",
	ObjectTypeTAMCollector:          "TAM_COLLECTOR",
	ObjectTypeTAMEventAction:        "TAM_EVENT_ACTION",
	ObjectTypeTAMEvent:              "TAM_EVENT",
	ObjectTypeNATZoneCounter:        "NAT_ZONE_COUNTER",
	ObjectTypeNATEntry:              "NAT_ENTRY",
	ObjectTypeTAMINT:                "TAM_INT",
	ObjectTypeCounter:               "COUNTER",
	ObjectTypeDebugCounter:          "DEBUG_COUNTER",
	ObjectTypePortConnector:         "PORT_CONNECTOR",
	ObjectTypePortSerdes:            "PORT_SERDES",
	ObjectTypeMacsec:                "MACSEC",
	ObjectTypeMacsecPort:            "MACSEC_PORT",
	ObjectTypeMacsecFlow:            "MACSEC_FLOW",
	ObjectTypeMacsecSC:              "MACSEC_SC",
	ObjectTypeMacsecSA:              "MACSEC_SA",
	ObjectTypeSystemPort:            "SYSTEM_PORT",
	ObjectTypeFineGrainedHashField:  "FINE_GRAINED_HASH_FIELD",
	ObjectTypeSwitchTunnel:          "SWITCH_TUNNEL",
	ObjectTypeMySIDEntry:            "MY_SID_ENTRY",
	ObjectTypeMyMAC:                 "MY_MAC",
	ObjectTypeNextHopGroupMap:       "NEXT_HOP_GROUP_MAP",
	ObjectTypeIPsec:                 "IPSEC",
	ObjectTypeIPsecPort:             "IPSEC_PORT",
	ObjectTypeIPsecSA:               "IPSEC_SA",
}

// ObjectTypePrefix is the symbolic prefix of object type names
const ObjectTypePrefix = "SAI_OBJECT_TYPE_"

// entryObjects are addressed by a key record instead of an oid
var entryObjects = map[ObjType]bool{
	ObjectTypeFDBEntry:      true,
	ObjectTypeNeighborEntry: true,
	ObjectTypeRouteEntry:    true,
	ObjectTypeL2MCEntry:     true,
	ObjectTypeIPMCEntry:     true,
	ObjectTypeMcastFDBEntry: true,
	ObjectTypeInsegEntry:    true,
	ObjectTypeNATEntry:      true,
	ObjectTypeMySIDEntry:    true,
}

// Valid reports whether t is a known object type other than NULL.
func (t ObjType) Valid() bool {
	return t > ObjectTypeNull && t < ObjectTypeMax
}

// IsEntry reports whether objects of type t are addressed by key record.
func (t ObjType) IsEntry() bool {
	return entryObjects[t]
}

func (t ObjType) String() string {
	if t < 0 || t >= ObjectTypeMax {
		return "ObjType(" + strconv.Itoa(int(t)) + ")"
	}
	return ObjectOrder[t]
}

// Name is the lower case name used in wire calls, e.g. "route_entry".
func (t ObjType) Name() string {
	return strings.ToLower(t.String())
}

// Symbol is the full symbolic name, e.g. "SAI_OBJECT_TYPE_PORT".
func (t ObjType) Symbol() string {
	return ObjectTypePrefix + t.String()
}

// ParseObjType accepts "PORT", "port", "SAI_OBJECT_TYPE_PORT" or the
// decimal ordinal "1".
func ParseObjType(s string) (ObjType, error) {
	name := strings.ToUpper(strings.TrimPrefix(s, ObjectTypePrefix))
	for i, n := range ObjectOrder {
		if n == name && ObjType(i).Valid() {
			return ObjType(i), nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && ObjType(n).Valid() {
		return ObjType(n), nil
	}
	return ObjectTypeNull, errUnknownObjType(s)
}
