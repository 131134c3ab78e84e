package sai

import (
	"errors"
	"testing"
)

func TestStatusFromCode(t *testing.T) {
	tests := []struct {
		code int32
		want Status
	}{
		{0, StatusSuccess},
		{-1, StatusFailure},
		{-5, StatusInvalidParameter},
		{-8, StatusBufferOverflow},
		{-0x00010000, "SAI_STATUS_INVALID_ATTRIBUTE_0"},
		{-0x00010002, "SAI_STATUS_INVALID_ATTRIBUTE_2"},
		{-0x00020003, "SAI_STATUS_INVALID_ATTR_VALUE_3"},
		{-0x00030001, "SAI_STATUS_ATTR_NOT_IMPLEMENTED_1"},
		{-0x0004ffff, "SAI_STATUS_UNKNOWN_ATTRIBUTE_65535"},
		{-0x00050000, "SAI_STATUS_ATTR_NOT_SUPPORTED_0"},
		{7, "SAI_STATUS_7"},
	}
	for _, tt := range tests {
		got := StatusFromCode(tt.code)
		if got != tt.want {
			t.Errorf("StatusFromCode(%#x): got %s, want %s", tt.code, got, tt.want)
		}
		if tt.code <= 0 {
			if back := got.Code(); back != tt.code {
				t.Errorf("%s.Code(): got %#x, want %#x", got, back, tt.code)
			}
		}
	}
}

func TestStatusClasses(t *testing.T) {
	tests := []struct {
		status         Status
		notSupported   bool
		notImplemented bool
	}{
		{StatusSuccess, false, false},
		{StatusNotSupported, true, false},
		{StatusNotSupportedStub, true, false},
		{"SAI_STATUS_ATTR_NOT_SUPPORTED_2", true, false},
		{StatusNotImplemented, false, true},
		{AttrNotImplemented(4), false, true},
		{InvalidAttrValue(0), false, false},
	}
	for _, tt := range tests {
		if got := tt.status.NotSupported(); got != tt.notSupported {
			t.Errorf("%s.NotSupported(): got %v", tt.status, got)
		}
		if got := tt.status.NotImplemented(); got != tt.notImplemented {
			t.Errorf("%s.NotImplemented(): got %v", tt.status, got)
		}
		if got := tt.status.Skippable(); got != (tt.notSupported || tt.notImplemented) {
			t.Errorf("%s.Skippable(): got %v", tt.status, got)
		}
	}
	if got := AttrNotImplemented(4); got != "SAI_STATUS_ATTR_NOT_IMPLEMENTED_4" {
		t.Errorf("AttrNotImplemented(4): got %s", got)
	}
}

func TestAssertStatusSuccess(t *testing.T) {
	tests := []struct {
		status   Status
		skipNS   bool
		skipNI   bool
		wantSkip bool
		wantErr  bool
	}{
		{StatusSuccess, false, false, false, false},
		{StatusNotSupported, true, false, true, true},
		{StatusNotSupported, false, true, false, true},
		{AttrNotImplemented(0), false, true, true, true},
		{StatusNotSupportedStub, true, true, true, true},
		{StatusFailure, true, true, false, true},
	}
	for _, tt := range tests {
		err := AssertStatusSuccess(tt.status, tt.skipNS, tt.skipNI)
		if (err != nil) != tt.wantErr {
			t.Errorf("AssertStatusSuccess(%s, %v, %v): got %v", tt.status, tt.skipNS, tt.skipNI, err)
		}
		if errors.Is(err, ErrSkip) != tt.wantSkip {
			t.Errorf("AssertStatusSuccess(%s, %v, %v): got %v, skip %v", tt.status, tt.skipNS, tt.skipNI, err, tt.wantSkip)
		}
	}
}

func TestWithAttrIndex(t *testing.T) {
	tests := []struct {
		status Status
		index  int
		want   Status
	}{
		{InvalidAttrValue(0), 2, "SAI_STATUS_INVALID_ATTR_VALUE_2"},
		{AttrNotImplemented(0), 1, "SAI_STATUS_ATTR_NOT_IMPLEMENTED_1"},
		{"SAI_STATUS_ATTR_NOT_SUPPORTED_4", 0, "SAI_STATUS_ATTR_NOT_SUPPORTED_0"},
		{StatusInvalidParameter, 3, StatusInvalidParameter},
		{StatusSuccess, 1, StatusSuccess},
	}
	for _, tt := range tests {
		if got := tt.status.WithAttrIndex(tt.index); got != tt.want {
			t.Errorf("%s.WithAttrIndex(%d): got %s, want %s", tt.status, tt.index, got, tt.want)
		}
	}
}
