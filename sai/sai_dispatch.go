package sai

import (
	"context"
	"fmt"
	"strings"

	"github.com/cn-pmlabs/gosai/lib/codec"
	"github.com/cn-pmlabs/gosai/lib/log"
)

// Op is a logical operation of the dispatcher.
type Op string

// Dispatcher operations
const (
	OpCreate     Op = "create"
	OpRemove     Op = "remove"
	OpSet        Op = "set"
	OpGet        Op = "get"
	OpGetStats   Op = "get_stats"
	OpClearStats Op = "clear_stats"
	OpFlush      Op = "flush"
)

// WireStyle selects how set and get reach the driver.
type WireStyle int

const (
	// StyleWhole sends every attribute in one call "<op>_<objtype>".
	StyleWhole WireStyle = iota
	// StylePerAttribute sends one call "<op>_<objtype>_attribute" per
	// attribute.
	StylePerAttribute
)

// WireName is the registry name of op on objType: "<op>_<objtype>", or
// "<op>_<objtype>_attribute" for set and get in the per attribute style.
// Stats calls are "get_<objtype>_stats" and "clear_<objtype>_stats",
// the FDB flush is "flush_fdb_entries".
func WireName(op Op, objType ObjType, style WireStyle) string {
	name := objType.Name()
	switch op {
	case OpFlush:
		return "flush_" + strings.TrimSuffix(name, "entry") + "entries"
	case OpGetStats:
		return "get_" + name + "_stats"
	case OpClearStats:
		return "clear_" + name + "_stats"
	case OpSet, OpGet:
		if style == StylePerAttribute {
			return string(op) + "_" + name + "_attribute"
		}
	}
	return string(op) + "_" + name
}

// Reply is the driver answer to one wire call. A non-zero Status is a
// driver verdict, not a transport failure. Value is decoded once the
// expected type is known.
type Reply struct {
	Status int32            `cbor:"status"`
	Value  codec.RawMessage `cbor:"value,omitempty"`
}

// WireCall performs one driver call with keyword arguments.
type WireCall func(ctx context.Context, args map[string]interface{}) (Reply, error)

// Transport carries named calls to the driver.
type Transport interface {
	Call(ctx context.Context, method string, args map[string]interface{}) (Reply, error)
}

// Registry maps wire names to their handlers.
type Registry map[string]WireCall

// Register binds name to call.
func (r Registry) Register(name string, call WireCall) {
	r[name] = call
}

// RegisterTransport binds every required wire name of types to the
// method of the same name on t.
func (r Registry) RegisterTransport(t Transport, style WireStyle, types ...ObjType) {
	for _, objType := range types {
		for _, op := range requiredOps(objType) {
			method := WireName(op, objType, style)
			r[method] = func(ctx context.Context, args map[string]interface{}) (Reply, error) {
				return t.Call(ctx, method, args)
			}
		}
	}
}

// requiredOps are the operations a dispatcher must resolve for objType.
// Entry objects have no statistics.
func requiredOps(objType ObjType) []Op {
	switch {
	case objType == ObjectTypeFDBEntry:
		return []Op{OpCreate, OpRemove, OpSet, OpGet, OpFlush}
	case objType.IsEntry():
		return []Op{OpCreate, OpRemove, OpSet, OpGet}
	}
	return []Op{OpCreate, OpRemove, OpSet, OpGet, OpGetStats, OpClearStats}
}

// AttrResult is the outcome of one attribute of a set or get, in
// request order. Value is the value set, or the value read.
type AttrResult struct {
	Name   string
	Value  string
	Status Status
}

// AttrResults are positional results of a per attribute call.
type AttrResults []AttrResult

// Attrs flattens the results into a name/value list.
func (r AttrResults) Attrs() []string {
	attrs := make([]string, 0, 2*len(r))
	for _, a := range r {
		attrs = append(attrs, a.Name, a.Value)
	}
	return attrs
}

// Dispatcher resolves (operation, object type) to a registered wire call
// and converts attributes with the catalog and codec.
type Dispatcher struct {
	catalog *Catalog
	codec   Codec
	style   WireStyle
	calls   map[ObjType]map[Op]WireCall
}

// NewDispatcher resolves the handler of every operation of types in reg.
// With no types every object type of the catalog is resolved. A missing
// handler fails here, never at call time.
func NewDispatcher(catalog *Catalog, reg Registry, style WireStyle, types ...ObjType) (*Dispatcher, error) {
	if len(types) == 0 {
		types = catalog.ObjectTypes()
	}
	d := &Dispatcher{
		catalog: catalog,
		codec:   catalog.Codec(),
		style:   style,
		calls:   make(map[ObjType]map[Op]WireCall, len(types)),
	}
	var missing []string
	for _, objType := range types {
		ops := make(map[Op]WireCall)
		for _, op := range requiredOps(objType) {
			name := WireName(op, objType, style)
			call, ok := reg[name]
			if !ok {
				missing = append(missing, name)
				continue
			}
			ops[op] = call
		}
		d.calls[objType] = ops
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingHandler, strings.Join(missing, ", "))
	}
	return d, nil
}

// Catalog returns the catalog the dispatcher converts attributes with.
func (d *Dispatcher) Catalog() *Catalog {
	return d.catalog
}

func (d *Dispatcher) handler(op Op, objType ObjType) (WireCall, error) {
	call, ok := d.calls[objType][op]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingHandler, WireName(op, objType, d.style))
	}
	return call, nil
}

// AttrArgName converts SAI_<TYPE>_ATTR_<NAME> into the keyword argument
// name <name>. Attributes of another object type are rejected.
func AttrArgName(objType ObjType, attr string) (string, error) {
	prefix := "SAI_" + objType.String() + "_ATTR_"
	if !strings.HasPrefix(attr, prefix) {
		return "", fmt.Errorf("%w: %s is not an attribute of %v", ErrUnknownAttribute, attr, objType)
	}
	return strings.ToLower(strings.TrimPrefix(attr, prefix)), nil
}

// wireAttr is one attribute converted for the wire
type wireAttr struct {
	name  string
	arg   string
	text  string
	typ   PrimitiveType
	value interface{}
}

// convert validates and encodes every attribute before any wire call.
// With values false, only names are converted and the value text is
// kept as a buffer hint.
func (d *Dispatcher) convert(objType ObjType, attrs []string, values bool) ([]wireAttr, error) {
	if len(attrs)%2 != 0 {
		return nil, fmt.Errorf("%w: odd attribute list length %d", ErrInvalidValue, len(attrs))
	}
	out := make([]wireAttr, 0, len(attrs)/2)
	for i := 0; i < len(attrs); i += 2 {
		name, text := attrs[i], attrs[i+1]
		t, err := d.catalog.Lookup(name)
		if err != nil {
			return nil, err
		}
		arg, err := AttrArgName(objType, name)
		if err != nil {
			return nil, err
		}
		a := wireAttr{name: name, arg: arg, text: text, typ: t}
		if values || text != "" {
			if a.value, err = d.codec.Encode(text, t); err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
		}
		out = append(out, a)
	}
	return out, nil
}

func (d *Dispatcher) wireKey(objType ObjType, addr Address) (WireKey, error) {
	return BuildKey(d.codec, objType, addr.Oid, addr.Key)
}

func keyArgs(key WireKey, extra int) map[string]interface{} {
	args := make(map[string]interface{}, len(key)+extra)
	for k, v := range key {
		args[k] = v
	}
	return args
}

func (d *Dispatcher) call(ctx context.Context, op Op, objType ObjType, args map[string]interface{}) (Reply, error) {
	call, err := d.handler(op, objType)
	if err != nil {
		return Reply{}, err
	}
	log.V(2).Info("%s %s %v", log.ModuleSAI, WireName(op, objType, d.style), args)
	return call(ctx, args)
}

// Create creates an object of objType. Entry objects take their key
// record in key; oid objects return their new oid.
func (d *Dispatcher) Create(ctx context.Context, objType ObjType, key map[string]string, attrs []string) (string, Status, error) {
	wk, err := BuildKey(d.codec, objType, "", key)
	if err != nil {
		return "", "", err
	}
	converted, err := d.convert(objType, attrs, true)
	if err != nil {
		return "", "", err
	}
	args := keyArgs(wk, len(converted))
	for _, a := range converted {
		args[a.arg] = a.value
	}
	reply, err := d.call(ctx, OpCreate, objType, args)
	if err != nil {
		return "", "", err
	}
	status := StatusFromCode(reply.Status)
	if !status.Success() || objType.IsEntry() {
		return "", status, nil
	}
	var id uint64
	if err := codec.Unmarshal(reply.Value, &id); err != nil {
		return "", status, fmt.Errorf("create %v: decode oid: %w", objType, err)
	}
	return FormatOid(id), status, nil
}

// Remove removes the addressed object.
func (d *Dispatcher) Remove(ctx context.Context, addr Address) (Status, error) {
	objType, err := addr.Resolve()
	if err != nil {
		return "", err
	}
	wk, err := d.wireKey(objType, addr)
	if err != nil {
		return "", err
	}
	reply, err := d.call(ctx, OpRemove, objType, keyArgs(wk, 0))
	if err != nil {
		return "", err
	}
	return StatusFromCode(reply.Status), nil
}

// SetAttributes sets attributes of the addressed object. In the per
// attribute style every attribute is sent on its own and the results
// are positional; when any fail the error is an *AttrErrors whose
// primary failure is the first one.
func (d *Dispatcher) SetAttributes(ctx context.Context, addr Address, attrs []string) (AttrResults, error) {
	objType, err := addr.Resolve()
	if err != nil {
		return nil, err
	}
	wk, err := d.wireKey(objType, addr)
	if err != nil {
		return nil, err
	}
	converted, err := d.convert(objType, attrs, true)
	if err != nil {
		return nil, err
	}
	op := "set " + addr.String()

	if d.style == StyleWhole {
		args := keyArgs(wk, len(converted))
		for _, a := range converted {
			args[a.arg] = a.value
		}
		reply, err := d.call(ctx, OpSet, objType, args)
		return d.wholeResults(op, converted, reply, err, nil)
	}

	results := make(AttrResults, len(converted))
	var failures []*AttrError
	for i, a := range converted {
		args := keyArgs(wk, 1)
		args[a.arg] = a.value
		reply, err := d.call(ctx, OpSet, objType, args)
		results[i] = AttrResult{Name: a.name, Value: a.text}
		if f := results[i].settle(i, reply, err); f != nil {
			failures = append(failures, f)
		}
	}
	return results, aggregate(op, failures)
}

// GetAttributes reads attributes of the addressed object. attrs holds
// name/value pairs; a non-empty value is sent as the buffer the driver
// fills. A BUFFER_OVERFLOW result carries the needed size in the form
// OverflowCapacity parses.
func (d *Dispatcher) GetAttributes(ctx context.Context, addr Address, attrs []string) (AttrResults, error) {
	objType, err := addr.Resolve()
	if err != nil {
		return nil, err
	}
	wk, err := d.wireKey(objType, addr)
	if err != nil {
		return nil, err
	}
	converted, err := d.convert(objType, attrs, false)
	if err != nil {
		return nil, err
	}
	op := "get " + addr.String()

	if d.style == StyleWhole {
		args := keyArgs(wk, len(converted))
		for _, a := range converted {
			args[a.arg] = a.value
		}
		reply, err := d.call(ctx, OpGet, objType, args)
		return d.wholeResults(op, converted, reply, err, d.decodeWhole)
	}

	results := make(AttrResults, len(converted))
	var failures []*AttrError
	for i, a := range converted {
		args := keyArgs(wk, 1)
		args[a.arg] = a.value
		reply, err := d.call(ctx, OpGet, objType, args)
		results[i] = AttrResult{Name: a.name}
		if err == nil {
			results[i].Value, err = d.decodeReply(a.typ, reply)
		}
		if f := results[i].settle(i, reply, err); f != nil {
			failures = append(failures, f)
		}
	}
	return results, aggregate(op, failures)
}

// settle records the status of attribute i of a per attribute loop and
// returns its failure, if any.
func (r *AttrResult) settle(i int, reply Reply, err error) *AttrError {
	if err != nil {
		r.Status = StatusFailure
		return &AttrError{Index: i, Name: r.Name, Status: r.Status, Err: err}
	}
	r.Status = StatusFromCode(reply.Status).WithAttrIndex(i)
	if !r.Status.Success() {
		return &AttrError{Index: i, Name: r.Name, Status: r.Status}
	}
	return nil
}

func aggregate(op string, failures []*AttrError) error {
	if len(failures) == 0 {
		return nil
	}
	return &AttrErrors{Op: op, Failures: failures}
}

// wholeResults spreads the single reply of a whole style call over every
// attribute. decode, when set, fills the values from the reply.
func (d *Dispatcher) wholeResults(op string, attrs []wireAttr, reply Reply, err error,
	decode func([]wireAttr, Reply, AttrResults) error) (AttrResults, error) {
	results := make(AttrResults, len(attrs))
	for i, a := range attrs {
		results[i] = AttrResult{Name: a.name, Value: a.text}
	}
	if err == nil && decode != nil {
		err = decode(attrs, reply, results)
	}
	status := StatusFromCode(reply.Status)
	if err != nil {
		status = StatusFailure
	}
	for i := range results {
		results[i].Status = status
	}
	if err != nil || !status.Success() {
		// the driver reports one status for the whole call
		return results, aggregate(op, []*AttrError{{Index: 0, Name: attrNames(attrs), Status: status, Err: err}})
	}
	return results, nil
}

func attrNames(attrs []wireAttr) string {
	names := make([]string, len(attrs))
	for i, a := range attrs {
		names[i] = a.name
	}
	return strings.Join(names, ",")
}

// decodeWhole reads a whole style get reply: a map of argument name to
// value.
func (d *Dispatcher) decodeWhole(attrs []wireAttr, reply Reply, results AttrResults) error {
	var values map[string]codec.RawMessage
	if len(reply.Value) > 0 {
		if err := codec.Unmarshal(reply.Value, &values); err != nil {
			return fmt.Errorf("decode reply: %w", err)
		}
	}
	for i, a := range attrs {
		results[i].Value = ""
		raw, ok := values[a.arg]
		if !ok {
			continue
		}
		text, err := d.decodeReply(a.typ, Reply{Status: reply.Status, Value: raw})
		if err != nil {
			return fmt.Errorf("%s: %w", a.name, err)
		}
		results[i].Value = text
	}
	return nil
}

// decodeReply converts the value of a get reply into text. Overflow
// replies carry the element count.
func (d *Dispatcher) decodeReply(t PrimitiveType, reply Reply) (string, error) {
	if len(reply.Value) == 0 {
		return "", nil
	}
	status := StatusFromCode(reply.Status)
	if status == StatusBufferOverflow {
		var n uint32
		if err := codec.Unmarshal(reply.Value, &n); err != nil {
			return "", fmt.Errorf("decode overflow count: %w", err)
		}
		return OverflowValue(t, int(n)), nil
	}
	if !status.Success() {
		return "", nil
	}
	v, err := NewWireValue(t)
	if err != nil {
		return "", err
	}
	if err := codec.Unmarshal(reply.Value, v); err != nil {
		return "", fmt.Errorf("%w: decode %v: %v", ErrInvalidValue, t, err)
	}
	return d.codec.Decode(v, t)
}

// GetStats reads counters of the addressed object. The driver answers
// with one value per counter, in request order.
func (d *Dispatcher) GetStats(ctx context.Context, addr Address, counters []string) (Status, *Data, error) {
	objType, err := addr.Resolve()
	if err != nil {
		return "", nil, err
	}
	wk, err := d.wireKey(objType, addr)
	if err != nil {
		return "", nil, err
	}
	args := keyArgs(wk, 1)
	args["counter_ids"] = counters
	reply, err := d.call(ctx, OpGetStats, objType, args)
	if err != nil {
		return "", nil, err
	}
	status := StatusFromCode(reply.Status)
	if !status.Success() {
		return status, nil, nil
	}
	var values []uint64
	if err := codec.Unmarshal(reply.Value, &values); err != nil {
		return status, nil, fmt.Errorf("get_stats %v: decode counters: %w", objType, err)
	}
	if len(values) != len(counters) {
		return status, nil, fmt.Errorf("get_stats %v: %d counters requested, %d returned", objType, len(counters), len(values))
	}
	data := make([]string, 0, 2*len(counters))
	for i, c := range counters {
		data = append(data, c, fmt.Sprint(values[i]))
	}
	return status, NewData(data...), nil
}

// ClearStats zeroes counters of the addressed object.
func (d *Dispatcher) ClearStats(ctx context.Context, addr Address, counters []string) (Status, error) {
	objType, err := addr.Resolve()
	if err != nil {
		return "", err
	}
	wk, err := d.wireKey(objType, addr)
	if err != nil {
		return "", err
	}
	args := keyArgs(wk, 1)
	args["counter_ids"] = counters
	reply, err := d.call(ctx, OpClearStats, objType, args)
	if err != nil {
		return "", err
	}
	return StatusFromCode(reply.Status), nil
}

// FlushFDBEntries flushes FDB entries matching the SAI_FDB_FLUSH_ATTR_*
// attributes.
func (d *Dispatcher) FlushFDBEntries(ctx context.Context, attrs []string) (Status, error) {
	converted, err := d.convert(ObjectTypeFDBFlush, attrs, true)
	if err != nil {
		return "", err
	}
	args := make(map[string]interface{}, len(converted))
	for _, a := range converted {
		args[a.arg] = a.value
	}
	reply, err := d.call(ctx, OpFlush, ObjectTypeFDBEntry, args)
	if err != nil {
		return "", err
	}
	return StatusFromCode(reply.Status), nil
}
