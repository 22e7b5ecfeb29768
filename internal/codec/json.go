package codec

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/pretty"

	"github.com/leapstack-labs/recordkeep/pkg/core"
)

// JSONName is the registry name of the JSON codec.
const JSONName = "json"

var jsonPrettyOptions = &pretty.Options{
	Width:  80,
	Indent: "  ",
}

// JSON encodes a record list as a JSON array of objects.
type JSON struct{}

// Name implements Codec.
func (JSON) Name() string { return JSONName }

// Encode implements Codec. The output is indented by two spaces and ends
// with a newline.
func (JSON) Encode(list core.RecordList) ([]byte, error) {
	if list == nil {
		list = core.RecordList{}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	out := pretty.PrettyOptions(raw, jsonPrettyOptions)
	if len(out) == 0 || out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	return out, nil
}

// Decode implements Codec. Blank input and a literal null decode to an
// empty list.
func (JSON) Decode(data []byte) (core.RecordList, error) {
	if isBlank(data) {
		return core.RecordList{}, nil
	}
	var list core.RecordList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("%w: json: %w", ErrMalformed, err)
	}
	if list == nil {
		list = core.RecordList{}
	}
	return list, nil
}
