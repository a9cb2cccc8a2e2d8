// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restapi

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jtacoma/uritemplates"
)

// identifier matches a valid placeholder name.
var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ParseTemplate returns the names of the {placeholders} in a URL
// template, in order of first appearance, or an empty slice if there
// are none.  A name that appears more than once is reported once.
// Unbalanced or nested braces are an error; the names themselves are
// not checked.
func ParseTemplate(template string) ([]string, error) {
	names := []string{}
	seen := make(map[string]bool)
	start := -1
	for i, c := range template {
		switch c {
		case '{':
			if start >= 0 {
				return nil, templateError(template, "nested '{' at offset %d", i)
			}
			start = i
		case '}':
			if start < 0 {
				return nil, templateError(template, "unmatched '}' at offset %d", i)
			}
			name := template[start+1 : i]
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
			start = -1
		}
	}
	if start >= 0 {
		return nil, templateError(template, "unmatched '{' at offset %d", start)
	}
	return names, nil
}

func templateError(template, format string, args ...interface{}) error {
	return &ConfigurationError{
		Op:  fmt.Sprintf("parse template %q", template),
		Err: fmt.Errorf(format, args...),
	}
}

// compileTemplate parses a template, checks its placeholder names,
// and prepares it for expansion.
func compileTemplate(template string) ([]string, *uritemplates.UriTemplate, error) {
	names, err := ParseTemplate(template)
	if err != nil {
		return nil, nil, err
	}
	for _, name := range names {
		if !identifier.MatchString(name) {
			return nil, nil, templateError(template, "placeholder %q is not an identifier", name)
		}
	}
	tmpl, err := uritemplates.Parse(template)
	if err != nil {
		return nil, nil, templateError(template, "%v", err)
	}
	return names, tmpl, nil
}

// joinPath combines a base path and an expanded template with exactly
// one slash between them.  An empty base contributes nothing.
func joinPath(base, path string) string {
	base = strings.Trim(base, "/")
	path = strings.Trim(path, "/")
	switch {
	case base == "":
		return path
	case path == "":
		return base
	default:
		return base + "/" + path
	}
}
