package sai

import (
	"strconv"
	"strings"
)

// Status is the symbolic status string reported by a driver,
// e.g. "SAI_STATUS_SUCCESS".
type Status string

// SAI status list
const (
	StatusSuccess                   Status = "SAI_STATUS_SUCCESS"
	StatusFailure                   Status = "SAI_STATUS_FAILURE"
	StatusNotSupported              Status = "SAI_STATUS_NOT_SUPPORTED"
	StatusNoMemory                  Status = "SAI_STATUS_NO_MEMORY"
	StatusInsufficientResources     Status = "SAI_STATUS_INSUFFICIENT_RESOURCES"
	StatusInvalidParameter          Status = "SAI_STATUS_INVALID_PARAMETER"
	StatusItemAlreadyExists         Status = "SAI_STATUS_ITEM_ALREADY_EXISTS"
	StatusItemNotFound              Status = "SAI_STATUS_ITEM_NOT_FOUND"
	StatusBufferOverflow            Status = "SAI_STATUS_BUFFER_OVERFLOW"
	StatusInvalidPortNumber         Status = "SAI_STATUS_INVALID_PORT_NUMBER"
	StatusInvalidPortMember         Status = "SAI_STATUS_INVALID_PORT_MEMBER"
	StatusInvalidVlanID             Status = "SAI_STATUS_INVALID_VLAN_ID"
	StatusUninitialized             Status = "SAI_STATUS_UNINITIALIZED"
	StatusTableFull                 Status = "SAI_STATUS_TABLE_FULL"
	StatusMandatoryAttributeMissing Status = "SAI_STATUS_MANDATORY_ATTRIBUTE_MISSING"
	StatusNotImplemented            Status = "SAI_STATUS_NOT_IMPLEMENTED"
	StatusAddrNotFound              Status = "SAI_STATUS_ADDR_NOT_FOUND"
	StatusObjectInUse               Status = "SAI_STATUS_OBJECT_IN_USE"
	StatusInvalidObjectType         Status = "SAI_STATUS_INVALID_OBJECT_TYPE"
	StatusInvalidObjectID           Status = "SAI_STATUS_INVALID_OBJECT_ID"
	StatusInvalidNvStorage          Status = "SAI_STATUS_INVALID_NV_STORAGE"
	StatusNvStorageFull             Status = "SAI_STATUS_NV_STORAGE_FULL"
	StatusSwUpgradeVersionMismatch  Status = "SAI_STATUS_SW_UPGRADE_VERSION_MISMATCH"
	StatusNotExecuted               Status = "SAI_STATUS_NOT_EXECUTED"

	// StatusNotSupportedStub is returned without a wire call for
	// attribute types the harness cannot size.
	StatusNotSupportedStub Status = "not supported"
)

// attribute indexed status ranges, the index is added to the base
const (
	statusInvalidAttribute0   = -0x00010000
	statusInvalidAttrValue0   = -0x00020000
	statusAttrNotImplemented0 = -0x00030000
	statusUnknownAttribute0   = -0x00040000
	statusAttrNotSupported0   = -0x00050000
	statusRangeSize           = 0x10000
)

var statusCodes = []Status{
	StatusSuccess,
	StatusFailure,
	StatusNotSupported,
	StatusNoMemory,
	StatusInsufficientResources,
	StatusInvalidParameter,
	StatusItemAlreadyExists,
	StatusItemNotFound,
	StatusBufferOverflow,
	StatusInvalidPortNumber,
	StatusInvalidPortMember,
	StatusInvalidVlanID,
	StatusUninitialized,
	StatusTableFull,
	StatusMandatoryAttributeMissing,
	StatusNotImplemented,
	StatusAddrNotFound,
	StatusObjectInUse,
	StatusInvalidObjectType,
	StatusInvalidObjectID,
	StatusInvalidNvStorage,
	StatusNvStorageFull,
	StatusSwUpgradeVersionMismatch,
	StatusNotExecuted,
}

var statusRanges = []struct {
	base int32
	name string
}{
	{statusInvalidAttribute0, "SAI_STATUS_INVALID_ATTRIBUTE_"},
	{statusInvalidAttrValue0, "SAI_STATUS_INVALID_ATTR_VALUE_"},
	{statusAttrNotImplemented0, "SAI_STATUS_ATTR_NOT_IMPLEMENTED_"},
	{statusUnknownAttribute0, "SAI_STATUS_UNKNOWN_ATTRIBUTE_"},
	{statusAttrNotSupported0, "SAI_STATUS_ATTR_NOT_SUPPORTED_"},
}

// StatusFromCode converts a numeric sai_status_t into its symbolic name.
func StatusFromCode(code int32) Status {
	if code <= 0 && int(-code) < len(statusCodes) {
		return statusCodes[-code]
	}
	for _, r := range statusRanges {
		if code <= r.base && code > r.base-statusRangeSize {
			return Status(r.name + strconv.Itoa(int(r.base-code)))
		}
	}
	return Status("SAI_STATUS_" + strconv.Itoa(int(code)))
}

// Code is the inverse of StatusFromCode. Unknown names map to FAILURE.
func (s Status) Code() int32 {
	for i, st := range statusCodes {
		if st == s {
			return int32(-i)
		}
	}
	for _, r := range statusRanges {
		if strings.HasPrefix(string(s), r.name) {
			idx, err := strconv.Atoi(strings.TrimPrefix(string(s), r.name))
			if err == nil && idx >= 0 && idx < statusRangeSize {
				return r.base - int32(idx)
			}
		}
	}
	return -1
}

// Success reports s == SAI_STATUS_SUCCESS
func (s Status) Success() bool {
	return s == StatusSuccess
}

// NotSupported covers NOT_SUPPORTED, ATTR_NOT_SUPPORTED_<n> and the
// unsupported type stub.
func (s Status) NotSupported() bool {
	return s == StatusNotSupported || s == StatusNotSupportedStub ||
		strings.HasPrefix(string(s), "SAI_STATUS_ATTR_NOT_SUPPORTED_")
}

// NotImplemented covers NOT_IMPLEMENTED and ATTR_NOT_IMPLEMENTED_<n>.
func (s Status) NotImplemented() bool {
	return s == StatusNotImplemented ||
		strings.HasPrefix(string(s), "SAI_STATUS_ATTR_NOT_IMPLEMENTED_")
}

// Skippable statuses may be treated by tests as skip outcomes.
func (s Status) Skippable() bool {
	return s.NotSupported() || s.NotImplemented()
}

// AttrNotImplemented is SAI_STATUS_ATTR_NOT_IMPLEMENTED_<index>.
func AttrNotImplemented(index int) Status {
	return StatusFromCode(statusAttrNotImplemented0 - int32(index))
}

// InvalidAttrValue is SAI_STATUS_INVALID_ATTR_VALUE_<index>.
func InvalidAttrValue(index int) Status {
	return StatusFromCode(statusInvalidAttrValue0 - int32(index))
}

// WithAttrIndex moves an attribute indexed status to index. A driver
// answering a single attribute call reports index 0; the caller knows
// the position in its own list. Other statuses are returned unchanged.
func (s Status) WithAttrIndex(index int) Status {
	for _, r := range statusRanges {
		if strings.HasPrefix(string(s), r.name) {
			return StatusFromCode(r.base - int32(index))
		}
	}
	return s
}
