package sai

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fakeStore answers Get from a queue of replies and records every call.
type fakeStore struct {
	replies []fakeReply
	gets    [][]string
	creates int
	removes int
	sets    int
	nextOid uint64

	// setReply, when set, answers every Set
	setReply *fakeReply
}

type fakeReply struct {
	status Status
	value  string
	err    error
}

func (f *fakeStore) Create(ctx context.Context, objType ObjType, key map[string]string, attrs []string) (string, Status, error) {
	f.creates++
	if key != nil {
		return "", StatusSuccess, nil
	}
	f.nextOid++
	return FormatOid(MakeOid(objType, f.nextOid)), StatusSuccess, nil
}

func (f *fakeStore) Remove(ctx context.Context, addr Address) (Status, error) {
	f.removes++
	return StatusSuccess, nil
}

func (f *fakeStore) Set(ctx context.Context, addr Address, attrs []string) (Status, error) {
	f.sets++
	if f.setReply != nil {
		return f.setReply.status, f.setReply.err
	}
	return StatusSuccess, nil
}

func (f *fakeStore) Get(ctx context.Context, addr Address, attrs []string) (Status, *Data, error) {
	f.gets = append(f.gets, attrs)
	if len(f.replies) == 0 {
		return StatusSuccess, NewData(attrs...), nil
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	if r.err != nil && r.status == "" {
		return "", nil, r.err
	}
	return r.status, NewData(attrs[0], r.value), r.err
}

func (f *fakeStore) GetStats(ctx context.Context, addr Address, counters []string) (Status, *Data, error) {
	return StatusSuccess, NewData(), nil
}

func (f *fakeStore) ClearStats(ctx context.Context, addr Address, counters []string) (Status, error) {
	return StatusSuccess, nil
}

func (f *fakeStore) FlushFDBEntries(ctx context.Context, attrs []string) (Status, error) {
	return StatusSuccess, nil
}

func (f *fakeStore) Close() error {
	return nil
}

const testPortOid = "oid:0x1000000000001"

func TestGetByTypeOverflow(t *testing.T) {
	tests := []struct {
		desc      string
		typ       PrimitiveType
		overflow  string
		wantProbe string
		wantFetch string
	}{
		{"object list", TypeObjectList, "3", "1:0x0", "3:0x0,0x0,0x0"},
		{"u32 list", TypeU32List, "2", "1:0", "2:0,0"},
		{"acl capability", TypeACLCapability, "false:51", "false:1:0", MakeACLCapabilityList(51)},
		{"map list", TypeMapList, `{"count":2,"list":null}`, MakeMapList(1), MakeMapList(2)},
		{"acl resource list", TypeACLResourceList, `{"count":4,"list":null}`, MakeACLResourceList(1), MakeACLResourceList(4)},
		{"system port config list", TypeSystemPortConfigList, `{"count":3,"list":null}`, MakeSystemPortConfigList(1), MakeSystemPortConfigList(3)},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			store := &fakeStore{replies: []fakeReply{
				{status: StatusBufferOverflow, value: tt.overflow},
				{status: StatusSuccess, value: "fetched"},
			}}
			s := New(store, NewCatalog(nil, nil))

			status, data, err := s.GetByType(context.Background(), OidAddress(testPortOid), "SAI_PORT_ATTR_X", tt.typ)
			if err != nil {
				t.Fatalf("GetByType: %v", err)
			}
			if status != StatusSuccess || data.Value(0) != "fetched" {
				t.Errorf("GetByType: got %s %v, want the fetch reply", status, data.Attrs())
			}
			want := [][]string{
				{"SAI_PORT_ATTR_X", tt.wantProbe},
				{"SAI_PORT_ATTR_X", tt.wantFetch},
			}
			if diff := cmp.Diff(want, store.gets); diff != "" {
				t.Errorf("Get calls diff (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGetByTypeSingleCall(t *testing.T) {
	tests := []struct {
		desc   string
		typ    PrimitiveType
		status Status
		want   string
	}{
		{"list fits", TypeObjectList, StatusSuccess, "1:0x0"},
		{"list fails", TypeS32List, StatusNotImplemented, "1:0"},
		{"oid", TypeObjectID, StatusSuccess, "0x0"},
		{"bool", TypeBool, StatusSuccess, "true"},
		{"mac", TypeMAC, StatusSuccess, "00:00:00:00:00:00"},
		{"ipv4", TypeIPv4, StatusSuccess, "0.0.0.0&mask:0.0.0.0"},
		{"range", TypeU32Range, StatusSuccess, "0,0"},
		{"integer", TypeU32, StatusSuccess, ""},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			store := &fakeStore{replies: []fakeReply{{status: tt.status, value: "v"}}}
			s := New(store, NewCatalog(nil, nil))

			status, _, err := s.GetByType(context.Background(), OidAddress(testPortOid), "SAI_PORT_ATTR_X", tt.typ)
			if err != nil {
				t.Fatalf("GetByType: %v", err)
			}
			if status != tt.status {
				t.Errorf("GetByType status: got %s, want %s", status, tt.status)
			}
			if diff := cmp.Diff([][]string{{"SAI_PORT_ATTR_X", tt.want}}, store.gets); diff != "" {
				t.Errorf("Get calls diff (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGetByTypeDriverFailure(t *testing.T) {
	notImpl := AttrNotImplemented(0)
	store := &fakeStore{replies: []fakeReply{{
		status: notImpl,
		err:    &AttrErrors{Op: "get", Failures: []*AttrError{{Index: 0, Name: "SAI_PORT_ATTR_X", Status: notImpl}}},
	}}}
	s := New(store, NewCatalog(nil, nil))

	status, _, err := s.GetByType(context.Background(), OidAddress(testPortOid), "SAI_PORT_ATTR_X", TypeObjectList)
	if err != nil {
		t.Fatalf("GetByType: %v", err)
	}
	if status != notImpl {
		t.Errorf("GetByType: got %s, want %s", status, notImpl)
	}
	if len(store.gets) != 1 {
		t.Errorf("GetByType made %d calls, want 1", len(store.gets))
	}
}

func TestGetByTypeSecondOverflow(t *testing.T) {
	store := &fakeStore{replies: []fakeReply{
		{status: StatusBufferOverflow, value: "2"},
		{status: StatusBufferOverflow, value: "5"},
		{status: StatusSuccess, value: "never"},
	}}
	s := New(store, NewCatalog(nil, nil))

	status, data, err := s.GetByType(context.Background(), OidAddress(testPortOid), "SAI_PORT_ATTR_X", TypeObjectList)
	if err != nil {
		t.Fatalf("GetByType: %v", err)
	}
	if status != StatusBufferOverflow || data.Value(0) != "5" {
		t.Errorf("GetByType: got %s %q, want the second overflow", status, data.Value(0))
	}
	if len(store.gets) != 2 {
		t.Errorf("GetByType made %d calls, want 2", len(store.gets))
	}
}

func TestGetByTypeUnsupported(t *testing.T) {
	for _, typ := range []PrimitiveType{TypePortEyeValuesList, TypePRBSRxState, TypePortErrStatusList, TypeFabricPortReachability} {
		store := &fakeStore{}
		s := New(store, NewCatalog(nil, nil))
		status, data, err := s.GetByType(context.Background(), OidAddress(testPortOid), "SAI_PORT_ATTR_X", typ)
		if err != nil || status != StatusNotSupportedStub || data != nil {
			t.Errorf("GetByType(%v): got %s %v %v, want the not supported stub", typ, status, data, err)
		}
		if len(store.gets) != 0 {
			t.Errorf("GetByType(%v) called the driver %d times", typ, len(store.gets))
		}
	}

	store := &fakeStore{}
	s := New(store, NewCatalog(nil, nil))
	if _, _, err := s.GetByType(context.Background(), OidAddress(testPortOid), "SAI_PORT_ATTR_X", TypeUnknown); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("GetByType(unknown): got %v, want %v", err, ErrUnsupportedType)
	}
	if len(store.gets) != 0 {
		t.Errorf("GetByType(unknown) called the driver %d times", len(store.gets))
	}
}

func TestGetByTypeTransportError(t *testing.T) {
	wantErr := errors.New("connection reset")
	store := &fakeStore{replies: []fakeReply{{err: wantErr}}}
	s := New(store, NewCatalog(nil, nil))
	if _, _, err := s.GetByType(context.Background(), OidAddress(testPortOid), "SAI_PORT_ATTR_X", TypeObjectList); !errors.Is(err, wantErr) {
		t.Errorf("GetByType: got %v, want %v", err, wantErr)
	}
	if len(store.gets) != 1 {
		t.Errorf("GetByType made %d calls, want 1", len(store.gets))
	}
}

func TestGetAttr(t *testing.T) {
	catalog := NewCatalog(map[string]string{
		"SAI_PORT_ATTR_QOS_QUEUE_LIST": "sai_object_list_t",
	}, nil)
	store := &fakeStore{replies: []fakeReply{
		{status: StatusBufferOverflow, value: "2"},
		{status: StatusSuccess, value: "2:0x15000000000001,0x15000000000002"},
	}}
	s := New(store, catalog)

	status, data, err := s.GetAttr(context.Background(), OidAddress(testPortOid), "SAI_PORT_ATTR_QOS_QUEUE_LIST")
	if err != nil || !status.Success() {
		t.Fatalf("GetAttr: %s %v", status, err)
	}
	oids, err := data.Oids()
	if err != nil {
		t.Fatalf("Oids: %v", err)
	}
	if diff := cmp.Diff([]string{"oid:0x15000000000001", "oid:0x15000000000002"}, oids); diff != "" {
		t.Errorf("Oids diff (-want +got):\n%s", diff)
	}

	if _, _, err := s.GetAttr(context.Background(), OidAddress(testPortOid), "SAI_PORT_ATTR_NOPE"); !errors.Is(err, ErrUnknownAttribute) {
		t.Errorf("GetAttr of unknown attribute: got %v, want %v", err, ErrUnknownAttribute)
	}
}

func TestGetList(t *testing.T) {
	store := &fakeStore{replies: []fakeReply{
		{status: StatusBufferOverflow, value: "3"},
		{status: StatusSuccess, value: "3:10,20,30"},
	}}
	s := New(store, NewCatalog(nil, nil))

	got, err := s.GetList(context.Background(), OidAddress(testPortOid), "SAI_PORT_ATTR_HW_LANE_LIST", "0")
	if err != nil {
		t.Fatalf("GetList: %v", err)
	}
	if diff := cmp.Diff([]string{"10", "20", "30"}, got); diff != "" {
		t.Errorf("GetList diff (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"SAI_PORT_ATTR_HW_LANE_LIST", "3:0,0,0"}, store.gets[1]); diff != "" {
		t.Errorf("fetch diff (-want +got):\n%s", diff)
	}

	store = &fakeStore{replies: []fakeReply{{status: StatusNotSupported}}}
	s = New(store, NewCatalog(nil, nil))
	if _, err := s.GetList(context.Background(), OidAddress(testPortOid), "SAI_PORT_ATTR_HW_LANE_LIST", "0"); err == nil {
		t.Error("GetList succeeded on NOT_SUPPORTED")
	}
}

func TestMakeList(t *testing.T) {
	tests := []struct {
		length int
		elem   string
		want   string
	}{
		{0, "0x0", "0:0x0"},
		{1, "0x0", "1:0x0"},
		{3, "0", "3:0,0,0"},
	}
	for _, tt := range tests {
		if got := MakeList(tt.length, tt.elem); got != tt.want {
			t.Errorf("MakeList(%d, %q): got %q, want %q", tt.length, tt.elem, got, tt.want)
		}
	}
	if got, want := MakeMapList(1), `{"count":1,"list":[{"key":0,"value":0}]}`; got != want {
		t.Errorf("MakeMapList(1): got %s, want %s", got, want)
	}
	if got, want := MakeACLResourceList(1), `{"count":1,"list":[{"avail_num":"","bind_point":"","stage":""}]}`; got != want {
		t.Errorf("MakeACLResourceList(1): got %s, want %s", got, want)
	}
}

func TestOverflowCapacity(t *testing.T) {
	tests := []struct {
		typ   PrimitiveType
		value string
		want  int
	}{
		{TypeObjectList, "32", 32},
		{TypeObjectList, "32:0x0", 32},
		{TypeACLCapability, "false:51", 51},
		{TypeACLCapability, "true:7:1,2", 7},
		{TypeMapList, `{"count":10,"list":null}`, 10},
		{TypeSystemPortConfigList, `{"count":0,"list":[]}`, 0},
	}
	for _, tt := range tests {
		got, err := OverflowCapacity(tt.typ, tt.value)
		if err != nil {
			t.Fatalf("OverflowCapacity(%v, %q): %v", tt.typ, tt.value, err)
		}
		if got != tt.want {
			t.Errorf("OverflowCapacity(%v, %q): got %d, want %d", tt.typ, tt.value, got, tt.want)
		}
		if back, err := OverflowCapacity(tt.typ, OverflowValue(tt.typ, got)); err != nil || back != got {
			t.Errorf("OverflowCapacity(OverflowValue(%v, %d)): got %d %v", tt.typ, got, back, err)
		}
	}

	for _, bad := range []struct {
		typ   PrimitiveType
		value string
	}{
		{TypeACLCapability, "false"},
		{TypeMapList, `{"list":null}`},
		{TypeU32List, "many"},
		{TypeBool, "1"},
	} {
		if _, err := OverflowCapacity(bad.typ, bad.value); err == nil {
			t.Errorf("OverflowCapacity(%v, %q) succeeded", bad.typ, bad.value)
		}
	}
}
