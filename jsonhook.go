// Copyright (c) 2024 Neomantra Corp
//
// jsonhook.go implements the write-side JSON hook: ToJSONLine renders
// one record as a single JSON line in the same field layout Fill_Json reads
// back, the write-side counterpart to JsonScanner/fastjson's read-side hook.
// Wide (64-bit) integer fields are quoted as decimal strings, matching the
// fastjsonGet*FromString convention used throughout Fill_Json, since a JSON
// number only guarantees 53 bits of integer precision.

package dbn

import (
	"bytes"
	"reflect"
	"strconv"

	"github.com/segmentio/encoding/json"
)

var rHeaderType = reflect.TypeOf(RHeader{})

// ToJSONLine renders r as a DBN JSON line (no trailing newline). Instrument
// definition records are not yet supported, since their read-side Fill_Json
// only covers a subset of instrumentDefCore's fields.
func ToJSONLine(r Record) ([]byte, error) {
	switch r.(type) {
	case *InstrumentDefMsgV1, *InstrumentDefMsgV2, *InstrumentDefMsgV3:
		return nil, newConversionErrorf("ToJSONLine: instrument definition records are not supported")
	}

	v := reflect.ValueOf(r)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, newConversionErrorf("ToJSONLine: %T is not a record struct", r)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	if err := writeJSONFields(&buf, v, &first); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSONFields(buf *bytes.Buffer, v reflect.Value, first *bool) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fv := v.Field(i)

		if field.Type == rHeaderType {
			writeComma(buf, first)
			buf.WriteString(`"hd":`)
			writeHeaderJSON(buf, fv.Interface().(RHeader))
			continue
		}
		if field.Anonymous && fv.Kind() == reflect.Struct {
			if err := writeJSONFields(buf, fv, first); err != nil {
				return err
			}
			continue
		}
		if field.PkgPath != "" {
			continue // unexported, non-embedded: nothing JSON-visible to write
		}
		name := jsonFieldName(field)
		if name == "-" {
			continue
		}
		writeComma(buf, first)
		buf.WriteByte('"')
		buf.WriteString(name)
		buf.WriteString(`":`)
		if err := writeJSONValue(buf, fv); err != nil {
			return err
		}
	}
	return nil
}

// writeHeaderJSON writes the common record header in the field order the
// real Databento JSON encoding uses: ts_event (quoted, 64-bit), then the
// three plain-number fields.
func writeHeaderJSON(buf *bytes.Buffer, h RHeader) {
	buf.WriteByte('{')
	buf.WriteString(`"ts_event":"`)
	buf.WriteString(strconv.FormatUint(h.TsEvent, 10))
	buf.WriteString(`","rtype":`)
	buf.WriteString(strconv.FormatUint(uint64(h.RType), 10))
	buf.WriteString(`,"publisher_id":`)
	buf.WriteString(strconv.FormatUint(uint64(h.PublisherID), 10))
	buf.WriteString(`,"instrument_id":`)
	buf.WriteString(strconv.FormatUint(uint64(h.InstrumentID), 10))
	buf.WriteByte('}')
}

func writeJSONValue(buf *bytes.Buffer, fv reflect.Value) error {
	switch fv.Kind() {
	case reflect.Int64:
		buf.WriteByte('"')
		buf.WriteString(strconv.FormatInt(fv.Int(), 10))
		buf.WriteByte('"')
	case reflect.Uint64:
		buf.WriteByte('"')
		buf.WriteString(strconv.FormatUint(fv.Uint(), 10))
		buf.WriteByte('"')
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int:
		buf.WriteString(strconv.FormatInt(fv.Int(), 10))
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint:
		buf.WriteString(strconv.FormatUint(fv.Uint(), 10))
	case reflect.Bool:
		if fv.Bool() {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case reflect.String:
		encoded, err := json.Marshal(fv.String())
		if err != nil {
			return newConversionErrorf("ToJSONLine: %v", err)
		}
		buf.Write(encoded)
	case reflect.Array, reflect.Slice:
		buf.WriteByte('[')
		for i := 0; i < fv.Len(); i++ {
			if i > 0 {
				buf.WriteByte(',')
			}
			elem := fv.Index(i)
			if elem.Kind() == reflect.Struct {
				buf.WriteByte('{')
				efirst := true
				if err := writeJSONFields(buf, elem, &efirst); err != nil {
					return err
				}
				buf.WriteByte('}')
			} else if err := writeJSONValue(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		return newConversionErrorf("ToJSONLine: unsupported field kind %v", fv.Kind())
	}
	return nil
}

func writeComma(buf *bytes.Buffer, first *bool) {
	if !*first {
		buf.WriteByte(',')
	}
	*first = false
}

// jsonFieldName extracts the JSON key for a struct field from its `json`
// tag, ignoring any options (",omitempty" etc). Falls back to the Go field
// name if the tag is absent.
func jsonFieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name
	}
	for i := 0; i < len(tag); i++ {
		if tag[i] == ',' {
			return tag[:i]
		}
	}
	return tag
}
