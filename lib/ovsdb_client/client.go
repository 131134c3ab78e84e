package ovsdbclient

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ebay/libovsdb"

	"github.com/cn-pmlabs/gosai/lib/log"
)

// ErrNotConnected is returned by operations issued before Connect.
var ErrNotConnected = errors.New("ovsdb not connected")

// OvsdbC db connection configure and status
type OvsdbC struct {
	Db        string
	Addr      string
	TLSConfig *tls.Config
	Client    *libovsdb.OvsdbClient
	Tranmutex sync.Mutex
}

// InsertRow insert row into db.table
// return the new row uuid
func (c *OvsdbC) InsertRow(table string, row map[string]interface{}) (string, error) {
	namedUUID, err := NewRowUUID()
	if err != nil {
		return "", err
	}
	operation := libovsdb.Operation{
		Op:       OpInsert,
		Table:    table,
		Row:      row,
		UUIDName: namedUUID,
	}
	results, err := c.Transact(c.Db, operation)
	if err != nil {
		return "", err
	}
	return results[0].UUID.GoUUID, nil
}

// UpdateRows update db.table row's field with updates
// return updated number
func (c *OvsdbC) UpdateRows(table string,
	updates map[string]interface{}, conditions []interface{}) (int, error) {
	operation := libovsdb.Operation{
		Op:    OpUpdate,
		Table: table,
		Row:   updates,
		Where: conditions,
	}
	results, err := c.Transact(c.Db, operation)
	if err != nil {
		return 0, err
	}
	return results[0].Count, nil
}

// DeleteRows delete db.table rows with conditions
// return delete number
func (c *OvsdbC) DeleteRows(table string, conditions []interface{}) (int, error) {
	operation := libovsdb.Operation{
		Op:    OpDelete,
		Table: table,
		Where: conditions,
	}
	results, err := c.Transact(c.Db, operation)
	if err != nil {
		return 0, err
	}
	return results[0].Count, nil
}

// SelectRows select db.table rows with conditions
func (c *OvsdbC) SelectRows(table string, conditions []interface{},
	columns ...string) ([]libovsdb.ResultRow, error) {
	if conditions == nil {
		conditions = []interface{}{}
	}
	operation := libovsdb.Operation{
		Op:      OpSelect,
		Table:   table,
		Where:   conditions,
		Columns: columns,
	}
	results, err := c.Transact(c.Db, operation)
	if err != nil {
		return nil, err
	}
	return results[0].Rows, nil
}

// Transact with mutex and error check
func (c *OvsdbC) Transact(db string, ops ...libovsdb.Operation) ([]libovsdb.OperationResult, error) {
	// Only support one trans at same time now.
	c.Tranmutex.Lock()
	defer c.Tranmutex.Unlock()
	if c.Client == nil {
		return nil, ErrNotConnected
	}
	reply, err := c.Client.Transact(db, ops...)
	if err != nil {
		return reply, err
	}

	for i, o := range reply {
		if o.Error != "" {
			if i < len(ops) {
				return nil, fmt.
					Errorf("transaction failed due to an error: %v details: %v in %v", o.Error, o.Details, ops[i])
			}
			return nil, fmt.
				Errorf("transaction failed due to an error: %v details: %v", o.Error, o.Details)
		}
	}
	if len(reply) < len(ops) {
		return reply, fmt.
			Errorf("number of replies should be at least equal to number of operations")
	}

	return reply, nil
}

// Connect ovsdb connection
func (c *OvsdbC) Connect() error {
	client, err := libovsdb.Connect(c.Addr, c.TLSConfig)
	if err != nil {
		return fmt.Errorf("connect %s[%s]: %w", c.Db, c.Addr, err)
	}
	c.Tranmutex.Lock()
	c.Client = client
	c.Tranmutex.Unlock()
	return nil
}

// ReConnect retries Connect with exponential backoff capped at 8
// seconds until it succeeds or ctx is done.
func (c *OvsdbC) ReConnect(ctx context.Context) error {
	retryCnt := 0
	cycleTime := time.NewTimer(0)
	defer cycleTime.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-cycleTime.C:
			err := c.Connect()
			if err == nil {
				log.Warning("%s Connect ovsdb %s successed\n", log.ModuleDriver, c.Db)
				return nil
			}

			delay := math.Exp2(float64(retryCnt))
			log.Info("%s Try to connect ovsdb %s[%s] failed, retry after %v seconds\n",
				log.ModuleDriver, c.Db, c.Addr, delay)

			cycleTime.Reset(time.Second * time.Duration(delay))
			if retryCnt <= 2 {
				retryCnt++
			}
		}
	}
}

// Close the ovsdb connection
func (c *OvsdbC) Close() {
	c.Tranmutex.Lock()
	defer c.Tranmutex.Unlock()
	if c.Client != nil {
		c.Client.Disconnect()
		c.Client = nil
	}
}
