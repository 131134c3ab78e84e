// Package rpc implements sai.ObjectStore over a binary RPC driver: every
// operation goes through a sai.Dispatcher bound to a Transport.
package rpc

import (
	"context"
	"io"

	"github.com/cn-pmlabs/gosai/lib/log"
	"github.com/cn-pmlabs/gosai/sai"
)

// Store adapts a Dispatcher to sai.ObjectStore.
type Store struct {
	d      *sai.Dispatcher
	closer io.Closer
}

var _ sai.ObjectStore = (*Store)(nil)

// New wraps d. closer, if not nil, is closed by Close.
func New(d *sai.Dispatcher, closer io.Closer) *Store {
	return &Store{d: d, closer: closer}
}

// Open registers every wire call of types on transport and resolves
// them. With no types every object type of the catalog is used.
func Open(catalog *sai.Catalog, transport sai.Transport, style sai.WireStyle, types ...sai.ObjType) (*Store, error) {
	if len(types) == 0 {
		types = catalog.ObjectTypes()
	}
	reg := sai.Registry{}
	reg.RegisterTransport(transport, style, types...)
	d, err := sai.NewDispatcher(catalog, reg, style, types...)
	if err != nil {
		return nil, err
	}
	closer, _ := transport.(io.Closer)
	return New(d, closer), nil
}

// Dispatcher returns the dispatcher in use.
func (s *Store) Dispatcher() *sai.Dispatcher {
	return s.d
}

// resultStatus folds a per attribute outcome into one status. Wire
// failures stay plain errors; driver verdicts return the primary status
// together with the *sai.AttrErrors so that no failure is lost.
func resultStatus(err error) (sai.Status, error) {
	if err == nil {
		return sai.StatusSuccess, nil
	}
	aerrs, ok := sai.DriverFailures(err)
	if !ok {
		return "", err
	}
	if secondary := aerrs.Secondary(); len(secondary) > 0 {
		log.V(1).Info("%s %v\n", log.ModuleDriver, err)
	}
	return aerrs.Primary().Status, aerrs
}

func (s *Store) Create(ctx context.Context, objType sai.ObjType, key map[string]string, attrs []string) (string, sai.Status, error) {
	return s.d.Create(ctx, objType, key, attrs)
}

func (s *Store) Remove(ctx context.Context, addr sai.Address) (sai.Status, error) {
	return s.d.Remove(ctx, addr)
}

func (s *Store) Set(ctx context.Context, addr sai.Address, attrs []string) (sai.Status, error) {
	_, err := s.d.SetAttributes(ctx, addr, attrs)
	return resultStatus(err)
}

func (s *Store) Get(ctx context.Context, addr sai.Address, attrs []string) (sai.Status, *sai.Data, error) {
	results, err := s.d.GetAttributes(ctx, addr, attrs)
	status, err := resultStatus(err)
	if status == "" {
		return "", nil, err
	}
	return status, sai.NewData(results.Attrs()...), err
}

func (s *Store) GetStats(ctx context.Context, addr sai.Address, counters []string) (sai.Status, *sai.Data, error) {
	return s.d.GetStats(ctx, addr, counters)
}

func (s *Store) ClearStats(ctx context.Context, addr sai.Address, counters []string) (sai.Status, error) {
	return s.d.ClearStats(ctx, addr, counters)
}

func (s *Store) FlushFDBEntries(ctx context.Context, attrs []string) (sai.Status, error) {
	return s.d.FlushFDBEntries(ctx, attrs)
}

// Close closes the transport.
func (s *Store) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
