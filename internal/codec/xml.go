package codec

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/leapstack-labs/recordkeep/pkg/core"
)

// XMLName is the registry name of the XML codec.
const XMLName = "xml"

const (
	xmlRootElement   = "records"
	xmlRecordElement = "record"
	xmlHeader        = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
)

type xmlDocument struct {
	XMLName xml.Name
	Records []xmlRecord `xml:"record"`
}

type xmlRecord struct {
	ID    string `xml:"id"`
	Name  string `xml:"name"`
	Email string `xml:"email"`
}

// XML encodes a record list as a <records> tree with one <record> node per
// record and <id>, <name>, <email> leaves.
type XML struct{}

// Name implements Codec.
func (XML) Name() string { return XMLName }

// Encode implements Codec.
func (XML) Encode(list core.RecordList) ([]byte, error) {
	doc := xmlDocument{
		XMLName: xml.Name{Local: xmlRootElement},
		Records: make([]xmlRecord, len(list)),
	}
	for i, r := range list {
		doc.Records[i] = xmlRecord(r)
	}

	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode xml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode xml: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Decode implements Codec. Blank input, an empty <records/> container and a
// document whose root is not <records> all decode to an empty list. A
// <record> missing a leaf decodes with that field empty; the other records
// are kept.
func (XML) Decode(data []byte) (core.RecordList, error) {
	if isBlank(data) {
		return core.RecordList{}, nil
	}
	var doc xmlDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: xml: %w", ErrMalformed, err)
	}
	if doc.XMLName.Local != xmlRootElement {
		return core.RecordList{}, nil
	}

	list := make(core.RecordList, len(doc.Records))
	for i, r := range doc.Records {
		list[i] = core.Record(r)
	}
	return list, nil
}
