package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// Body is the decoded payload of a response. It is always exactly one of
// JSONBody or TextBody; callers switch on the concrete type.
type Body interface {
	// String renders the body for error messages and logs.
	String() string

	body()
}

// JSONBody holds a body that parsed as a single JSON value. Numbers are kept
// as json.Number so identifiers keep their exact textual form.
type JSONBody struct {
	Value any
}

func (JSONBody) body() {}

// String returns the compact JSON encoding of the value.
func (b JSONBody) String() string {
	data, err := json.Marshal(b.Value)
	if err != nil {
		return "<unprintable json>"
	}
	return string(data)
}

// TextBody holds a body that was not valid JSON, verbatim. An empty body is
// a TextBody with empty Text.
type TextBody struct {
	Text string
}

func (TextBody) body() {}

// String returns the raw text.
func (b TextBody) String() string {
	return b.Text
}

// DecodeBody parses data as one JSON value and falls back to TextBody when it
// is not valid JSON (including trailing garbage after the value). It never
// fails.
func DecodeBody(data []byte) Body {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return TextBody{Text: string(data)}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return TextBody{Text: string(data)}
	}

	return JSONBody{Value: v}
}
