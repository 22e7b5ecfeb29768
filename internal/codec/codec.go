// Package codec translates record lists to and from their on-disk encodings.
//
// Two encodings are provided: JSON, a structured list of objects, and XML,
// a markup tree with one <record> node per record under a <records> root.
// Codecs are pure and stateless; a decode failure is reported to the caller,
// which decides how to absorb it.
package codec

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/leapstack-labs/recordkeep/pkg/core"
)

// Codec encodes and decodes a full record list.
type Codec interface {
	// Name returns the codec identifier used in configuration and diagnostics.
	Name() string
	// Encode serializes the entire list.
	Encode(list core.RecordList) ([]byte, error)
	// Decode parses data. Empty input decodes to an empty list.
	Decode(data []byte) (core.RecordList, error)
}

var registry = map[string]Codec{
	JSONName: JSON{},
	XMLName:  XML{},
}

// Lookup returns the codec registered under name.
func Lookup(name string) (Codec, error) {
	c, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownCodec, name, Names())
	}
	return c, nil
}

// Names returns all registered codec names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isBlank(data []byte) bool {
	return len(bytes.TrimSpace(data)) == 0
}
