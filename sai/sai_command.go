package sai

import (
	"context"
	"fmt"
	"strings"
)

// VarSwitchID is the predefined variable holding the switch oid.
const VarSwitchID = "$SWITCH_ID"

// Command actions
const (
	ActionCreate = "create"
	ActionRemove = "remove"
	ActionSet    = "set"
	ActionGet    = "get"
)

// Command is one scripted operation. Key is either a "$name" string
// naming an oid object in the runner table, or a key record of an entry
// object. Values starting with '$' are replaced by the oid they name.
type Command struct {
	Action     string      `yaml:"action" json:"action"`
	Type       string      `yaml:"type" json:"type"`
	Key        interface{} `yaml:"key,omitempty" json:"key,omitempty"`
	Attributes []string    `yaml:"attributes,omitempty" json:"attributes,omitempty"`
}

// CommandResult is the outcome of one command. Failures lists every
// attribute the driver rejected when a set or get failed per attribute.
type CommandResult struct {
	Oid      string
	Status   Status
	Data     *Data
	Failures *AttrErrors
}

// Runner executes commands against a Sai, keeping the oids of named
// objects it created.
type Runner struct {
	sai     *Sai
	objects map[string]string
}

// NewRunner returns a runner whose table starts with vars.
func NewRunner(s *Sai, vars map[string]string) *Runner {
	objects := make(map[string]string, len(vars))
	for k, v := range vars {
		objects[k] = v
	}
	return &Runner{sai: s, objects: objects}
}

// Lookup returns the oid stored under name.
func (r *Runner) Lookup(name string) (string, bool) {
	oid, ok := r.objects[name]
	return oid, ok
}

// InitSwitch creates the switch object and stores it as $SWITCH_ID.
func (r *Runner) InitSwitch(ctx context.Context, attrs []string) (Status, error) {
	oid, status, err := r.sai.Create(ctx, ObjectTypeSwitch, nil, attrs)
	if err != nil || !status.Success() {
		return status, err
	}
	r.objects[VarSwitchID] = oid
	return status, nil
}

func (r *Runner) resolve(value string) (string, error) {
	if !strings.HasPrefix(value, "$") {
		return value, nil
	}
	oid, ok := r.objects[value]
	if !ok {
		return "", fmt.Errorf("undefined object %s", value)
	}
	return oid, nil
}

func (r *Runner) resolveAttrs(attrs []string) ([]string, error) {
	out := make([]string, len(attrs))
	for i, a := range attrs {
		v, err := r.resolve(a)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// commandKey splits Key into an object name or an entry key record.
func (r *Runner) commandKey(key interface{}) (string, map[string]string, error) {
	switch k := key.(type) {
	case nil:
		return "", nil, nil
	case string:
		return k, nil, nil
	case map[string]string:
		return r.resolveKey(k)
	case map[string]interface{}:
		record := make(map[string]string, len(k))
		for field, v := range k {
			record[field] = fmt.Sprint(v)
		}
		return r.resolveKey(record)
	}
	return "", nil, fmt.Errorf("%w: key of type %T", ErrInvalidKeyField, key)
}

func (r *Runner) resolveKey(record map[string]string) (string, map[string]string, error) {
	out := make(map[string]string, len(record))
	for field, v := range record {
		resolved, err := r.resolve(v)
		if err != nil {
			return "", nil, err
		}
		out[field] = resolved
	}
	return "", out, nil
}

// address builds the target of remove, set and get.
func (r *Runner) address(objType ObjType, name string, key map[string]string) (Address, error) {
	if key != nil {
		return KeyAddress(objType, key), nil
	}
	oid, err := r.resolve(name)
	if err != nil {
		return Address{}, err
	}
	if oid == "" {
		return Address{}, fmt.Errorf("%w: %v needs an object name or key", ErrInvalidKeyField, objType)
	}
	return OidAddress(oid), nil
}

// Run executes cmd. Wire statuses are returned in the result; errors are
// reserved for malformed commands and transport failures.
func (r *Runner) Run(ctx context.Context, cmd Command) (*CommandResult, error) {
	objType, err := ParseObjType(strings.TrimPrefix(cmd.Type, "OBJECT_TYPE_"))
	if err != nil {
		return nil, err
	}
	name, key, err := r.commandKey(cmd.Key)
	if err != nil {
		return nil, err
	}
	attrs, err := r.resolveAttrs(cmd.Attributes)
	if err != nil {
		return nil, err
	}

	res := &CommandResult{}
	switch cmd.Action {
	case ActionCreate:
		res.Oid, res.Status, err = r.sai.Create(ctx, objType, key, attrs)
		if err == nil && res.Status.Success() && name != "" {
			r.objects[name] = res.Oid
		}
	case ActionRemove:
		var addr Address
		if addr, err = r.address(objType, name, key); err != nil {
			return nil, err
		}
		res.Oid = addr.Oid
		res.Status, err = r.sai.Remove(ctx, addr)
		if err == nil && res.Status.Success() && key == nil {
			delete(r.objects, name)
		}
	case ActionSet:
		var addr Address
		if addr, err = r.address(objType, name, key); err != nil {
			return nil, err
		}
		res.Oid = addr.Oid
		res.Status, err = r.sai.Set(ctx, addr, attrs)
	case ActionGet:
		var addr Address
		if addr, err = r.address(objType, name, key); err != nil {
			return nil, err
		}
		res.Oid = addr.Oid
		res.Status, res.Data, err = r.sai.Get(ctx, addr, attrs)
	default:
		return nil, fmt.Errorf("unknown action %q", cmd.Action)
	}
	if aerrs, ok := DriverFailures(err); ok && res.Status != "" {
		res.Failures, err = aerrs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s %v: %w", cmd.Action, objType, err)
	}
	return res, nil
}
