// Package document edits single fields of a JSON save document in place,
// leaving the rest of the text byte-for-byte unchanged.
//
// Paths use gjson syntax: dot-separated keys, e.g. "playerData.permadeathMode".
package document

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

var (
	ErrInvalidDocument = errors.New("document: not valid JSON")
	ErrFieldNotFound   = errors.New("document: field not found")
)

type Document struct {
	raw []byte
}

// Parse validates text as JSON. The document keeps its own copy.
func Parse(text []byte) (*Document, error) {
	if !gjson.ValidBytes(text) {
		return nil, ErrInvalidDocument
	}
	raw := make([]byte, len(text))
	copy(raw, text)
	return &Document{raw: raw}, nil
}

// ParseLenient accepts JSON with comments and trailing commas, as left behind
// by hand-editing an exported save.
func ParseLenient(text []byte) (*Document, error) {
	return Parse(jsonc.ToJSON(text))
}

// Bytes returns a copy of the document text.
func (d *Document) Bytes() []byte {
	out := make([]byte, len(d.raw))
	copy(out, d.raw)
	return out
}

// Pretty returns the document indented by two spaces.
func (d *Document) Pretty() []byte {
	return pretty.PrettyOptions(d.raw, &pretty.Options{
		Width:    80,
		Prefix:   "",
		Indent:   "  ",
		SortKeys: false,
	})
}

func (d *Document) Get(path string) (gjson.Result, error) {
	r := gjson.GetBytes(d.raw, path)
	if !r.Exists() {
		return gjson.Result{}, fmt.Errorf("%w: %s", ErrFieldNotFound, path)
	}
	return r, nil
}

// Int returns the field at path as an integer.
func (d *Document) Int(path string) (int64, error) {
	r, err := d.Get(path)
	if err != nil {
		return 0, err
	}
	if r.Type != gjson.Number {
		return 0, fmt.Errorf("%s: expected number, got %s", path, r.Type)
	}
	return r.Int(), nil
}

// Set returns a new document with the existing field at path replaced by
// value. It does not create missing fields.
func (d *Document) Set(path string, value any) (*Document, error) {
	if _, err := d.Get(path); err != nil {
		return nil, err
	}
	raw, err := sjson.SetBytes(d.Bytes(), path, value)
	if err != nil {
		return nil, fmt.Errorf("set %s: %w", path, err)
	}
	return &Document{raw: raw}, nil
}
