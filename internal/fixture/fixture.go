// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package fixture

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/vespa-engine/vespa/jsbridge/go/internal/bridge"
)

var gzipMagic = []byte{0x1f, 0x8b}

// Load reads host data from path. With format Auto the format is taken from
// the file extension, or guessed from the content if the extension is unknown.
func Load(path string, format Format) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if format == Auto {
		format, _ = FormatOf(path)
	}
	data, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

// Decode reads host data from r. Gzip compressed input is recognized by its
// magic bytes.
func Decode(r io.Reader, format Format) (any, error) {
	br := bufio.NewReader(r)
	if head, _ := br.Peek(2); bytes.Equal(head, gzipMagic) {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		br = bufio.NewReader(zr)
	}
	if format == Auto {
		head, _ := br.Peek(64)
		format = sniff(head)
	}
	switch format {
	case YAML:
		return decodeYAML(br)
	case JSON:
		return decodeJSON(br)
	case CBOR:
		return decodeCBOR(br)
	}
	return nil, fmt.Errorf("invalid format %s", format)
}

// undefinedOrFields returns Undefined for the marker object and fields
// otherwise.
func undefinedOrFields(fields bridge.Fields) any {
	if len(fields) == 1 && fields[0].Name == UndefinedMarker && fields[0].Value == true {
		return bridge.Undefined
	}
	return fields
}
