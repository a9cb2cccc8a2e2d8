// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restapi

import (
	"github.com/mitchellh/mapstructure"
)

// DecodeResult decodes a generic call result, as returned from
// Bound.Invoke, into a typed value.  out must be a pointer.  Struct
// fields are matched by their json tags, and numbers and strings are
// converted as needed.
func DecodeResult(result interface{}, out interface{}) error {
	config := mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	}
	decoder, err := mapstructure.NewDecoder(&config)
	if err == nil {
		err = decoder.Decode(result)
	}
	return err
}
