package sai

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Data is the textual result of a get: attribute names alternating with
// their values, in request order.
type Data struct {
	attrs []string
}

// NewData wraps a flat name/value list.
func NewData(attrs ...string) *Data {
	return &Data{attrs: attrs}
}

// Attrs returns the flat name/value list.
func (d *Data) Attrs() []string {
	if d == nil {
		return nil
	}
	return d.attrs
}

// Len is the number of attributes held.
func (d *Data) Len() int {
	return len(d.Attrs()) / 2
}

// Value returns the value of the i-th attribute.
func (d *Data) Value(i int) string {
	attrs := d.Attrs()
	if 2*i+1 >= len(attrs) {
		return ""
	}
	return attrs[2*i+1]
}

// Lookup returns the value of the named attribute.
func (d *Data) Lookup(name string) (string, bool) {
	attrs := d.Attrs()
	for i := 0; i+1 < len(attrs); i += 2 {
		if attrs[i] == name {
			return attrs[i+1], true
		}
	}
	return "", false
}

// ToJSON renders the name/value list as a JSON array.
func (d *Data) ToJSON() string {
	attrs := d.Attrs()
	if attrs == nil {
		attrs = []string{}
	}
	b, _ := json.Marshal(attrs)
	return string(b)
}

// Uint32 reads the first value as a count. A list value "<count>:..."
// yields its count.
func (d *Data) Uint32() (uint32, error) {
	countText, _, _ := strings.Cut(d.Value(0), ":")
	n, err := strconv.ParseUint(strings.TrimSpace(countText), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a count", ErrInvalidValue, d.Value(0))
	}
	return uint32(n), nil
}

// Oid returns the first value as an oid string.
func (d *Data) Oid() string {
	return d.Value(0)
}

// ToList returns the elements of the first value "<count>:<e1>,<e2>".
func (d *Data) ToList() []string {
	_, items, err := splitList(d.Value(0))
	if err != nil {
		return nil
	}
	return items
}

// Oids returns the elements of an object list value as oid strings.
func (d *Data) Oids() ([]string, error) {
	items := d.ToList()
	oids := make([]string, 0, len(items))
	for _, item := range items {
		id, err := ParseOid(item)
		if err != nil {
			return nil, err
		}
		oids = append(oids, FormatOid(id))
	}
	return oids, nil
}
