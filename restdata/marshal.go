// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"bytes"
	"io"
	"mime"
	"reflect"
	"strings"

	"github.com/ugorji/go/codec"
)

var mapStringInterface = reflect.TypeOf(map[string]interface{}(nil))

// JSONHandle returns the codec handle used for every body.  Objects
// decoded into an interface{} become map[string]interface{}.
func JSONHandle() *codec.JsonHandle {
	json := &codec.JsonHandle{}
	json.MapType = mapStringInterface
	return json
}

// IsJSON returns true if a Content-Type: header names a JSON media
// type.  An empty header is presumed to be JSON.
func IsJSON(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch {
	case mediaType == JSONMediaType, mediaType == "text/json":
		return true
	case strings.HasPrefix(mediaType, "application/") && strings.HasSuffix(mediaType, "+json"):
		return true
	}
	return false
}

// Decode tries to decode a JSON object from a reader, such as an HTTP
// request or response.  out must be a pointer type.  Unlike a strict
// reading of RFC 7231, a missing content type is treated as JSON,
// since many servers omit it.
func Decode(contentType string, r io.Reader, out interface{}) error {
	if !IsJSON(contentType) {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err != nil {
			return err
		}
		return ErrUnsupportedMediaType{Type: mediaType}
	}
	return codec.NewDecoder(r, JSONHandle()).Decode(out)
}

// DecodeBytes decodes a JSON body that has already been read.
func DecodeBytes(contentType string, b []byte, out interface{}) error {
	return Decode(contentType, bytes.NewReader(b), out)
}

// Encode writes v as JSON.
func Encode(w io.Writer, v interface{}) error {
	return codec.NewEncoder(w, JSONHandle()).Encode(v)
}

// EncodeBytes returns the JSON encoding of v.
func EncodeBytes(v interface{}) ([]byte, error) {
	var b []byte
	err := codec.NewEncoderBytes(&b, JSONHandle()).Encode(v)
	return b, err
}
