package ovsdbclient

import (
	"encoding/hex"
	"fmt"

	"github.com/ebay/libovsdb"
	"github.com/google/uuid"
)

// default ovsdb server listening socket addr
var (
	SaiStateAddr string = "tcp:127.0.0.1:6650"
)

// operation set
const (
	OpInsert string = "insert"
	OpMutate string = "mutate"
	OpDelete string = "delete"
	OpSelect string = "select"
	OpUpdate string = "update"
)

// DB name
const (
	SAISTATE string = "SAI_STATE"
)

// SAI_STATE Table name
const (
	SAI_ASIC_State string = "ASIC_STATE"
)

// SAI_STATE column name
const (
	ColumnKey   string = "key"
	ColumnAttrs string = "attrs"
)

func encodeHex(dst []byte, id uuid.UUID) {
	hex.Encode(dst, id[:4])
	dst[8] = '_'
	hex.Encode(dst[9:13], id[4:6])
	dst[13] = '_'
	hex.Encode(dst[14:18], id[6:8])
	dst[18] = '_'
	hex.Encode(dst[19:23], id[8:10])
	dst[23] = '_'
	hex.Encode(dst[24:], id[10:])
}

// NewRowUUID generate a random named uuid for insert operations
func NewRowUUID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	var buf [36 + 3]byte
	copy(buf[:], "row")
	encodeHex(buf[3:], id)
	return string(buf[:]), nil
}

// NewStringMap converts m into an ovsdb map column value
func NewStringMap(m map[string]string) (*libovsdb.OvsMap, error) {
	if m == nil {
		m = map[string]string{}
	}
	oMap, err := libovsdb.NewOvsMap(m)
	if err != nil {
		return nil, fmt.Errorf("OvsMap trans error: %v", err)
	}
	return oMap, nil
}

// ConvertOvsMapToStringMap get string map from a selected map column
func ConvertOvsMapToStringMap(value interface{}) map[string]string {
	var goMap map[interface{}]interface{}
	switch m := value.(type) {
	case libovsdb.OvsMap:
		goMap = m.GoMap
	case *libovsdb.OvsMap:
		goMap = m.GoMap
	}
	ret := make(map[string]string, len(goMap))
	for k, v := range goMap {
		key, ok := k.(string)
		if !ok {
			continue
		}
		if s, ok := v.(string); ok {
			ret[key] = s
		}
	}
	return ret
}
