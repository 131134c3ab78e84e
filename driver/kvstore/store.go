// Package kvstore implements sai.ObjectStore over a key-value table of
// object rows, the way a virtual switch keeps its ASIC state.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/cn-pmlabs/gosai/lib/log"
	"github.com/cn-pmlabs/gosai/sai"
)

// maxOidProbe bounds the search for a free oid index
const maxOidProbe = 1 << 16

// FDB flush attributes
const (
	FlushAttrBridgePortID = "SAI_FDB_FLUSH_ATTR_BRIDGE_PORT_ID"
	FlushAttrBvID         = "SAI_FDB_FLUSH_ATTR_BV_ID"
	FlushAttrEntryType    = "SAI_FDB_FLUSH_ATTR_ENTRY_TYPE"

	fdbAttrBridgePortID = "SAI_FDB_ENTRY_ATTR_BRIDGE_PORT_ID"
	fdbAttrType         = "SAI_FDB_ENTRY_ATTR_TYPE"
)

// Store keeps one row per object in a Table. Rows are keyed by
// sai.Address.String() and hold attribute and counter values as text.
type Store struct {
	table   Table
	catalog *sai.Catalog
	codec   sai.Codec

	mu   sync.Mutex
	next uint64
}

var _ sai.ObjectStore = (*Store)(nil)

// New returns a Store over table converting values with catalog.
func New(table Table, catalog *sai.Catalog) *Store {
	return &Store{
		table:   table,
		catalog: catalog,
		codec:   catalog.Codec(),
		next:    1,
	}
}

// checkAttrs validates the attributes of objType. Unknown names are
// errors; values the codec rejects are reported as
// INVALID_ATTR_VALUE_<index>.
func (s *Store) checkAttrs(objType sai.ObjType, attrs []string) (sai.Status, error) {
	if len(attrs)%2 != 0 {
		return "", fmt.Errorf("%w: odd attribute list length %d", sai.ErrInvalidValue, len(attrs))
	}
	for i := 0; i < len(attrs); i += 2 {
		t, err := s.catalog.Lookup(attrs[i])
		if err != nil {
			return "", err
		}
		if _, err := sai.AttrArgName(objType, attrs[i]); err != nil {
			return "", err
		}
		if _, err := s.codec.Encode(attrs[i+1], t); err != nil {
			if errors.Is(err, sai.ErrUnsupportedType) {
				return "", err
			}
			return sai.InvalidAttrValue(i / 2), nil
		}
	}
	return sai.StatusSuccess, nil
}

func toMap(attrs []string) map[string]string {
	m := make(map[string]string, len(attrs)/2)
	for i := 0; i+1 < len(attrs); i += 2 {
		m[attrs[i]] = attrs[i+1]
	}
	return m
}

// Create stores a new object. Oid objects get the first free index of
// their type.
func (s *Store) Create(ctx context.Context, objType sai.ObjType, key map[string]string, attrs []string) (string, sai.Status, error) {
	if !objType.Valid() {
		return "", "", fmt.Errorf("%w: %v", sai.ErrUnknownObjectType, objType)
	}
	if objType.IsEntry() && key == nil {
		return "", "", fmt.Errorf("%w: %v requires a key", sai.ErrInvalidKeyField, objType)
	}
	if key != nil {
		if _, err := sai.BuildKey(s.codec, objType, "", key); err != nil {
			return "", "", err
		}
	}
	status, err := s.checkAttrs(objType, attrs)
	if err != nil || !status.Success() {
		return "", status, err
	}

	row := toMap(attrs)
	if objType.IsEntry() {
		addr := sai.KeyAddress(objType, key)
		ok, err := s.table.Insert(addr.String(), row)
		if err != nil {
			return "", "", err
		}
		if !ok {
			return "", sai.StatusItemAlreadyExists, nil
		}
		log.Info("%s create %v\n", log.ModuleDriver, addr)
		return "", sai.StatusSuccess, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < maxOidProbe; i++ {
		oid := sai.FormatOid(sai.MakeOid(objType, s.next))
		s.next++
		ok, err := s.table.Insert(sai.OidAddress(oid).String(), row)
		if err != nil {
			return "", "", err
		}
		if ok {
			log.Info("%s create %v %s\n", log.ModuleDriver, objType, oid)
			return oid, sai.StatusSuccess, nil
		}
	}
	return "", sai.StatusTableFull, nil
}

// Remove deletes the addressed object.
func (s *Store) Remove(ctx context.Context, addr sai.Address) (sai.Status, error) {
	if _, err := addr.Resolve(); err != nil {
		return "", err
	}
	ok, err := s.table.Delete(addr.String())
	if err != nil {
		return "", err
	}
	if !ok {
		return sai.StatusItemNotFound, nil
	}
	return sai.StatusSuccess, nil
}

func (s *Store) row(addr sai.Address) (sai.ObjType, map[string]string, sai.Status, error) {
	objType, err := addr.Resolve()
	if err != nil {
		return objType, nil, "", err
	}
	row, ok, err := s.table.Select(addr.String())
	if err != nil {
		return objType, nil, "", err
	}
	if !ok {
		return objType, nil, sai.StatusItemNotFound, nil
	}
	return objType, row, sai.StatusSuccess, nil
}

// Set merges attributes into the addressed object.
func (s *Store) Set(ctx context.Context, addr sai.Address, attrs []string) (sai.Status, error) {
	objType, row, status, err := s.row(addr)
	if err != nil || !status.Success() {
		return status, err
	}
	if status, err := s.checkAttrs(objType, attrs); err != nil || !status.Success() {
		return status, err
	}
	for k, v := range toMap(attrs) {
		row[k] = v
	}
	if _, err := s.table.Update(addr.String(), row); err != nil {
		return "", err
	}
	return sai.StatusSuccess, nil
}

// Get reads attributes of the addressed object. For list types the
// request value is the buffer to fill; when a stored list is longer the
// call fails with BUFFER_OVERFLOW and the value of that attribute is the
// needed size. Attributes never set fail with ATTR_NOT_IMPLEMENTED.
func (s *Store) Get(ctx context.Context, addr sai.Address, attrs []string) (sai.Status, *sai.Data, error) {
	objType, row, status, err := s.row(addr)
	if err != nil || !status.Success() {
		return status, nil, err
	}
	if len(attrs)%2 != 0 {
		return "", nil, fmt.Errorf("%w: odd attribute list length %d", sai.ErrInvalidValue, len(attrs))
	}

	out := make([]string, 0, len(attrs))
	status = sai.StatusSuccess
	for i := 0; i < len(attrs); i += 2 {
		name, buffer := attrs[i], attrs[i+1]
		t, err := s.catalog.Lookup(name)
		if err != nil {
			return "", nil, err
		}
		if _, err := sai.AttrArgName(objType, name); err != nil {
			return "", nil, err
		}
		stored, ok := row[name]
		if !ok {
			return sai.AttrNotImplemented(i / 2), nil, nil
		}
		if !t.IsList() {
			out = append(out, name, stored)
			continue
		}

		need, err := s.codec.ListCount(stored, t)
		if err != nil {
			return "", nil, fmt.Errorf("%v %s: stored value: %w", addr, name, err)
		}
		capacity := 0
		if buffer != "" {
			if capacity, err = s.codec.ListCount(buffer, t); err != nil {
				return sai.InvalidAttrValue(i / 2), nil, nil
			}
		}
		if need > capacity {
			status = sai.StatusBufferOverflow
			out = append(out, name, sai.OverflowValue(t, need))
			continue
		}
		out = append(out, name, stored)
	}
	return status, sai.NewData(out...), nil
}

// GetStats reads counters kept in the object row. Counters never
// written read as zero.
func (s *Store) GetStats(ctx context.Context, addr sai.Address, counters []string) (sai.Status, *sai.Data, error) {
	_, row, status, err := s.row(addr)
	if err != nil || !status.Success() {
		return status, nil, err
	}
	out := make([]string, 0, 2*len(counters))
	for _, c := range counters {
		v, ok := row[c]
		if !ok {
			v = "0"
		}
		out = append(out, c, v)
	}
	return sai.StatusSuccess, sai.NewData(out...), nil
}

// ClearStats zeroes counters in the object row.
func (s *Store) ClearStats(ctx context.Context, addr sai.Address, counters []string) (sai.Status, error) {
	_, row, status, err := s.row(addr)
	if err != nil || !status.Success() {
		return status, err
	}
	for _, c := range counters {
		row[c] = "0"
	}
	if _, err := s.table.Update(addr.String(), row); err != nil {
		return "", err
	}
	return sai.StatusSuccess, nil
}

type fdbFlush struct {
	bvID       string
	bridgePort string
	entryType  string
}

func parseFlush(attrs []string) (fdbFlush, error) {
	f := fdbFlush{entryType: "DYNAMIC"}
	if len(attrs)%2 != 0 {
		return f, fmt.Errorf("%w: odd attribute list length %d", sai.ErrInvalidValue, len(attrs))
	}
	for i := 0; i < len(attrs); i += 2 {
		switch v := attrs[i+1]; attrs[i] {
		case FlushAttrBvID:
			f.bvID = v
		case FlushAttrBridgePortID:
			f.bridgePort = v
		case FlushAttrEntryType:
			f.entryType = strings.TrimPrefix(v, "SAI_FDB_FLUSH_ENTRY_TYPE_")
		default:
			return f, fmt.Errorf("%w: %s", sai.ErrUnknownAttribute, attrs[i])
		}
	}
	return f, nil
}

func sameOid(a, b string) bool {
	x, err := sai.ParseOid(a)
	if err != nil {
		return false
	}
	y, err := sai.ParseOid(b)
	return err == nil && x == y
}

func (f fdbFlush) match(key map[string]string, row map[string]string) bool {
	if f.bvID != "" && !sameOid(f.bvID, key["bv_id"]) {
		return false
	}
	if f.bridgePort != "" && !sameOid(f.bridgePort, row[fdbAttrBridgePortID]) {
		return false
	}
	if f.entryType == "ALL" {
		return true
	}
	entryType := strings.TrimPrefix(row[fdbAttrType], "SAI_FDB_ENTRY_TYPE_")
	if entryType == "" {
		entryType = "DYNAMIC"
	}
	return entryType == f.entryType
}

// FlushFDBEntries removes the FDB entries matching the flush attributes.
// Without an entry type only dynamic entries are flushed.
func (s *Store) FlushFDBEntries(ctx context.Context, attrs []string) (sai.Status, error) {
	f, err := parseFlush(attrs)
	if err != nil {
		return "", err
	}
	prefix := sai.ObjectTypeFDBEntry.Symbol() + ":"
	keys, err := s.table.Keys(prefix)
	if err != nil {
		return "", err
	}
	flushed := 0
	for _, k := range keys {
		var key map[string]string
		if err := json.Unmarshal([]byte(strings.TrimPrefix(k, prefix)), &key); err != nil {
			log.Warning("%s skip malformed fdb key %s: %v\n", log.ModuleDriver, k, err)
			continue
		}
		row, ok, err := s.table.Select(k)
		if err != nil {
			return "", err
		}
		if !ok || !f.match(key, row) {
			continue
		}
		if _, err := s.table.Delete(k); err != nil {
			return "", err
		}
		flushed++
	}
	log.Info("%s flushed %d fdb entries\n", log.ModuleDriver, flushed)
	return sai.StatusSuccess, nil
}

// Close releases the table.
func (s *Store) Close() error {
	return s.table.Close()
}
