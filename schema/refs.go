// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// definitionRoots are the keys whose object values hold named,
// reusable subschemas.
var definitionRoots = map[string]bool{
	"definitions": true,
	"$defs":       true,
}

// reference is one "$ref" occurrence in a document.
type reference struct {
	// name is the final segment of the reference target.
	name string

	// path is the location of the "$ref" key itself.
	path []string
}

// AdjustReferences rewrites every local $ref in the document so that
// it points at the definition with the same final name, wherever that
// definition now lives.  New calls this unless DeferReferences was
// given.  It is an error for a reference to name a definition that
// does not exist, or one that is defined in more than one place.
func (n *Node) AdjustReferences() error {
	n.lock.Lock()
	defer n.lock.Unlock()

	defined := make(map[string][][]string)
	var refs []reference
	collect(n.doc, nil, defined, &refs)

	for _, ref := range refs {
		var target []string
		switch locations := defined[ref.name]; len(locations) {
		case 0:
			return &ConfigurationError{
				Op:   "adjust references",
				Path: pointer(ref.path),
				Err:  fmt.Errorf("%q: %w", ref.name, ErrUnresolvedReference),
			}
		case 1:
			target = locations[0]
		default:
			names := make([]string, len(locations))
			for i, location := range locations {
				names[i] = pointer(location)
			}
			sort.Strings(names)
			return &ConfigurationError{
				Op:   "adjust references",
				Path: pointer(ref.path),
				Err:  fmt.Errorf("%q defined at %s: %w", ref.name, strings.Join(names, ", "), ErrAmbiguousReference),
			}
		}
		if err := setPath(n.doc, ref.path, pointer(target)); err != nil {
			return &ConfigurationError{Op: "adjust references", Path: pointer(ref.path), Err: err}
		}
	}

	// Any compiled form is now stale.
	n.compiled = nil
	return nil
}

// collect walks a document, recording every location directly under a
// definitions object and every local $ref.
func collect(v interface{}, path []string, defined map[string][][]string, refs *[]reference) {
	switch t := v.(type) {
	case map[string]interface{}:
		underDefinitions := len(path) > 0 && definitionRoots[path[len(path)-1]]
		for key, item := range t {
			here := appendPath(path, key)
			if underDefinitions {
				defined[key] = append(defined[key], here)
			}
			if key == "$ref" {
				if target, isString := item.(string); isString {
					if name, local := referenceName(target); local {
						*refs = append(*refs, reference{name: name, path: here})
					}
				}
			}
			collect(item, here, defined, refs)
		}
	case []interface{}:
		for i, item := range t {
			collect(item, appendPath(path, strconv.Itoa(i)), defined, refs)
		}
	}
}

// referenceName returns the final, unescaped segment of a local
// reference such as "#/definitions/point".  Remote references and the
// bare root reference "#" are not local in this sense.
func referenceName(target string) (string, bool) {
	if !strings.HasPrefix(target, "#/") {
		return "", false
	}
	segments := strings.Split(target[2:], "/")
	name := unescape(segments[len(segments)-1])
	if name == "" {
		return "", false
	}
	return name, true
}

// setPath replaces the value at path with value.  Segments that
// address arrays are interpreted as indexes.
func setPath(doc interface{}, path []string, value interface{}) error {
	if len(path) == 0 {
		return fmt.Errorf("cannot replace the document root")
	}
	current := doc
	for i, segment := range path {
		last := i == len(path)-1
		switch t := current.(type) {
		case map[string]interface{}:
			if last {
				t[segment] = value
				return nil
			}
			current = t[segment]
		case []interface{}:
			index, err := strconv.Atoi(segment)
			if err != nil || index < 0 || index >= len(t) {
				return fmt.Errorf("bad array index %q", segment)
			}
			if last {
				t[index] = value
				return nil
			}
			current = t[index]
		default:
			return fmt.Errorf("cannot descend into %T at %q", current, segment)
		}
	}
	return nil
}

// pointer renders a path as a URI-fragment JSON pointer, "#" for the
// root.
func pointer(path []string) string {
	var sb strings.Builder
	sb.WriteString("#")
	for _, segment := range path {
		sb.WriteString("/")
		sb.WriteString(escape(segment))
	}
	return sb.String()
}

// escape and unescape apply RFC 6901 escaping to a single segment.
func escape(segment string) string {
	return strings.ReplaceAll(strings.ReplaceAll(segment, "~", "~0"), "/", "~1")
}

func unescape(segment string) string {
	return strings.ReplaceAll(strings.ReplaceAll(segment, "~1", "/"), "~0", "~")
}
