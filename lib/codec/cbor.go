// Package codec is the CBOR encoding shared by the RPC transport and the
// wire values it carries.
package codec

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// encMode uses Core Deterministic Encoding so the same request always
// produces the same bytes on the wire.
var encMode cbor.EncMode

// decMode decodes any-typed maps as map[string]interface{}; wire
// argument names are always strings.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]interface{}(nil)),
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v to CBOR.
func Marshal(v interface{}) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v.
func Unmarshal(data []byte, v interface{}) error {
	return decMode.Unmarshal(data, v)
}

// RawMessage is an encoded value whose decoding is deferred until the
// attribute type is known.
type RawMessage = cbor.RawMessage

// Diagnose returns the CBOR diagnostic notation of data, used when
// tracing wire calls.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}
