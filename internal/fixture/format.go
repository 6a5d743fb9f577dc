// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

// Package fixture decodes host data for the bridge from YAML, JSON and CBOR
// files, optionally gzip compressed.
package fixture

import (
	"fmt"
	"path/filepath"
	"strings"
)

type Format int

const (
	Auto Format = iota
	YAML
	JSON
	CBOR
)

// UndefinedMarker is the JSON and CBOR spelling of an undefined value: an
// object holding only this key, set to true.
const UndefinedMarker = "$undefined"

var formatNames = []string{"auto", "yaml", "json", "cbor"}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "unknown"
}

func ParseFormat(s string) (Format, error) {
	for i, name := range formatNames {
		if strings.EqualFold(s, name) {
			return Format(i), nil
		}
	}
	return Auto, fmt.Errorf("invalid format %q, must be one of %s", s, strings.Join(formatNames, ", "))
}

// FormatOf guesses the format from the file name. A trailing .gz is ignored.
func FormatOf(path string) (Format, bool) {
	ext := strings.ToLower(filepath.Ext(strings.TrimSuffix(path, ".gz")))
	switch ext {
	case ".yaml", ".yml":
		return YAML, true
	case ".json", ".jsonc":
		return JSON, true
	case ".cbor":
		return CBOR, true
	}
	return Auto, false
}

// sniff guesses the format from the first bytes of the input.
func sniff(head []byte) Format {
	for _, b := range head {
		switch {
		case b == '{' || b == '[':
			return JSON
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			continue
		case b < 0x20 || b >= 0x80:
			return CBOR
		default:
			return YAML
		}
	}
	return YAML
}
