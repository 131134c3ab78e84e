package sai

import (
	"context"
	"fmt"

	"github.com/cn-pmlabs/gosai/lib/log"
)

// ObjectStore is implemented by every driver backend. Attribute lists
// are flat name/value pairs in textual form; driver reported statuses
// come back as Status, errors are reserved for caller contract
// violations and transport failures. The one exception is a Set or Get
// whose attributes fail individually: it returns the primary status
// together with an *AttrErrors listing every failed attribute (see
// DriverFailures).
type ObjectStore interface {
	Create(ctx context.Context, objType ObjType, key map[string]string, attrs []string) (string, Status, error)
	Remove(ctx context.Context, addr Address) (Status, error)
	Set(ctx context.Context, addr Address, attrs []string) (Status, error)
	Get(ctx context.Context, addr Address, attrs []string) (Status, *Data, error)
	GetStats(ctx context.Context, addr Address, counters []string) (Status, *Data, error)
	ClearStats(ctx context.Context, addr Address, counters []string) (Status, error)
	FlushFDBEntries(ctx context.Context, attrs []string) (Status, error)
	Close() error
}

// Sai is the harness entry point for one switch under test.
type Sai struct {
	store   ObjectStore
	catalog *Catalog
}

// New binds a driver backend and the metadata catalog.
func New(store ObjectStore, catalog *Catalog) *Sai {
	return &Sai{
		store:   store,
		catalog: catalog,
	}
}

// Catalog returns the metadata catalog in use.
func (s *Sai) Catalog() *Catalog {
	return s.catalog
}

// Close releases the backend.
func (s *Sai) Close() error {
	return s.store.Close()
}

// Create creates an object. Oid objects return their new oid; entry
// objects are addressed by key and return an empty oid.
func (s *Sai) Create(ctx context.Context, objType ObjType, key map[string]string, attrs []string) (string, Status, error) {
	log.V(1).Info("%s create %v key %v attrs %v", log.ModuleSAI, objType, key, attrs)
	return s.store.Create(ctx, objType, key, attrs)
}

// Remove removes the addressed object.
func (s *Sai) Remove(ctx context.Context, addr Address) (Status, error) {
	log.V(1).Info("%s remove %v", log.ModuleSAI, addr)
	return s.store.Remove(ctx, addr)
}

// Set sets attributes of the addressed object.
func (s *Sai) Set(ctx context.Context, addr Address, attrs []string) (Status, error) {
	log.V(1).Info("%s set %v attrs %v", log.ModuleSAI, addr, attrs)
	return s.store.Set(ctx, addr, attrs)
}

// Get reads attributes of the addressed object. List values in attrs
// size the buffers the driver fills.
func (s *Sai) Get(ctx context.Context, addr Address, attrs []string) (Status, *Data, error) {
	return s.store.Get(ctx, addr, attrs)
}

// GetStats reads counters of the addressed object.
func (s *Sai) GetStats(ctx context.Context, addr Address, counters []string) (Status, *Data, error) {
	return s.store.GetStats(ctx, addr, counters)
}

// ClearStats zeroes counters of the addressed object.
func (s *Sai) ClearStats(ctx context.Context, addr Address, counters []string) (Status, error) {
	return s.store.ClearStats(ctx, addr, counters)
}

// FlushFDBEntries flushes FDB entries matching the flush attributes.
func (s *Sai) FlushFDBEntries(ctx context.Context, attrs []string) (Status, error) {
	return s.store.FlushFDBEntries(ctx, attrs)
}

// BulkResult holds the per object outcome of a bulk call. Err is nil or
// an *AttrErrors listing every failed index.
type BulkResult struct {
	Oids     []string
	Statuses []Status
	Err      error
}

type bulkCollector struct {
	op       string
	result   BulkResult
	failures []*AttrError
}

func (b *bulkCollector) add(i int, name, oid string, status Status, err error) {
	b.result.Oids = append(b.result.Oids, oid)
	if err != nil && status == "" {
		status = StatusFailure
	}
	b.result.Statuses = append(b.result.Statuses, status)
	if err != nil || !status.Success() {
		b.failures = append(b.failures, &AttrError{Index: i, Name: name, Status: status, Err: err})
	}
}

func (b *bulkCollector) done() *BulkResult {
	if len(b.failures) > 0 {
		b.result.Err = &AttrErrors{Op: b.op, Failures: b.failures}
	}
	return &b.result
}

// BulkCreate creates one object per entry of keys with the same
// attributes. A nil key creates an oid object.
func (s *Sai) BulkCreate(ctx context.Context, objType ObjType, keys []map[string]string, attrs []string) *BulkResult {
	b := bulkCollector{op: "bulk_create " + objType.Name()}
	for i, key := range keys {
		oid, status, err := s.store.Create(ctx, objType, key, attrs)
		b.add(i, objType.Symbol(), oid, status, err)
	}
	return b.done()
}

// BulkRemove removes every addressed object.
func (s *Sai) BulkRemove(ctx context.Context, addrs []Address) *BulkResult {
	b := bulkCollector{op: "bulk_remove"}
	for i, addr := range addrs {
		status, err := s.store.Remove(ctx, addr)
		b.add(i, addr.String(), addr.Oid, status, err)
	}
	return b.done()
}

// BulkSet applies the same attributes to every addressed object.
func (s *Sai) BulkSet(ctx context.Context, addrs []Address, attrs []string) *BulkResult {
	b := bulkCollector{op: "bulk_set"}
	for i, addr := range addrs {
		status, err := s.store.Set(ctx, addr, attrs)
		b.add(i, addr.String(), addr.Oid, status, err)
	}
	return b.done()
}

// AssertStatusSuccess turns a status into a test outcome: nil on
// success, ErrSkip for the soft statuses the caller chose to skip and an
// error for everything else.
func AssertStatusSuccess(status Status, skipNotSupported, skipNotImplemented bool) error {
	if skipNotSupported && status.NotSupported() {
		return fmt.Errorf("%w: not supported (%s)", ErrSkip, status)
	}
	if skipNotImplemented && status.NotImplemented() {
		return fmt.Errorf("%w: not implemented (%s)", ErrSkip, status)
	}
	if !status.Success() {
		return fmt.Errorf("unexpected status %s", status)
	}
	return nil
}
