package kvstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ebay/libovsdb"

	odbc "github.com/cn-pmlabs/gosai/lib/ovsdb_client"
)

// Table holds one row per object: the object key and its attributes.
type Table interface {
	// Insert adds a row; it reports false when key already exists.
	Insert(key string, attrs map[string]string) (bool, error)
	// Update replaces the attributes of key; it reports false when key
	// does not exist.
	Update(key string, attrs map[string]string) (bool, error)
	Delete(key string) (bool, error)
	Select(key string) (map[string]string, bool, error)
	// Keys lists the keys starting with prefix in sorted order.
	Keys(prefix string) ([]string, error)
	Close() error
}

// ovsdbTable keeps rows in the ASIC_STATE table of the SAI_STATE db.
type ovsdbTable struct {
	c     *odbc.OvsdbC
	table string
}

// NewOvsdbTable connects to the SAI_STATE db described by cfg, retrying
// until ctx is done.
func NewOvsdbTable(ctx context.Context, cfg odbc.Config) (Table, error) {
	if cfg.Db == "" {
		cfg.Db = odbc.SAISTATE
	}
	if cfg.Addr == "" {
		cfg.Addr = odbc.SaiStateAddr
	}
	c := odbc.NewOvsdbC(cfg)
	if err := c.ReConnect(ctx); err != nil {
		return nil, fmt.Errorf("connect %s[%s]: %w", cfg.Db, cfg.Addr, err)
	}
	return &ovsdbTable{c: c, table: odbc.SAI_ASIC_State}, nil
}

func keyCondition(key string) []interface{} {
	return []interface{}{libovsdb.NewCondition(odbc.ColumnKey, "==", key)}
}

func (t *ovsdbTable) Insert(key string, attrs map[string]string) (bool, error) {
	_, found, err := t.Select(key)
	if err != nil || found {
		return false, err
	}
	oMap, err := odbc.NewStringMap(attrs)
	if err != nil {
		return false, err
	}
	row := map[string]interface{}{
		odbc.ColumnKey:   key,
		odbc.ColumnAttrs: oMap,
	}
	if _, err := t.c.InsertRow(t.table, row); err != nil {
		return false, err
	}
	return true, nil
}

func (t *ovsdbTable) Update(key string, attrs map[string]string) (bool, error) {
	oMap, err := odbc.NewStringMap(attrs)
	if err != nil {
		return false, err
	}
	n, err := t.c.UpdateRows(t.table, map[string]interface{}{odbc.ColumnAttrs: oMap}, keyCondition(key))
	return n > 0, err
}

func (t *ovsdbTable) Delete(key string) (bool, error) {
	n, err := t.c.DeleteRows(t.table, keyCondition(key))
	return n > 0, err
}

func (t *ovsdbTable) Select(key string) (map[string]string, bool, error) {
	rows, err := t.c.SelectRows(t.table, keyCondition(key), odbc.ColumnAttrs)
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	if len(rows) > 1 {
		return nil, false, fmt.Errorf("%s: %d rows for key %s", t.table, len(rows), key)
	}
	return odbc.ConvertOvsMapToStringMap(rows[0][odbc.ColumnAttrs]), true, nil
}

func (t *ovsdbTable) Keys(prefix string) ([]string, error) {
	rows, err := t.c.SelectRows(t.table, nil, odbc.ColumnKey)
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, row := range rows {
		if key, ok := row[odbc.ColumnKey].(string); ok && strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (t *ovsdbTable) Close() error {
	t.c.Close()
	return nil
}

// memTable is a Table kept in process memory.
type memTable struct {
	mu   sync.Mutex
	rows map[string]map[string]string
}

// NewMemTable returns an empty in-memory Table.
func NewMemTable() Table {
	return &memTable{rows: make(map[string]map[string]string)}
}

func copyAttrs(attrs map[string]string) map[string]string {
	cp := make(map[string]string, len(attrs))
	for k, v := range attrs {
		cp[k] = v
	}
	return cp
}

func (t *memTable) Insert(key string, attrs map[string]string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[key]; ok {
		return false, nil
	}
	t.rows[key] = copyAttrs(attrs)
	return true, nil
}

func (t *memTable) Update(key string, attrs map[string]string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[key]; !ok {
		return false, nil
	}
	t.rows[key] = copyAttrs(attrs)
	return true, nil
}

func (t *memTable) Delete(key string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[key]; !ok {
		return false, nil
	}
	delete(t.rows, key)
	return true, nil
}

func (t *memTable) Select(key string) (map[string]string, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	attrs, ok := t.rows[key]
	if !ok {
		return nil, false, nil
	}
	return copyAttrs(attrs), true, nil
}

func (t *memTable) Keys(prefix string) ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var keys []string
	for key := range t.rows {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (t *memTable) Close() error {
	return nil
}
