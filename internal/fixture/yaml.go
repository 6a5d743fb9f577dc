// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package fixture

import (
	"errors"
	"fmt"
	"io"

	"github.com/vespa-engine/vespa/jsbridge/go/internal/bridge"
	"gopkg.in/yaml.v3"
)

const (
	tagUndefined = "!undefined"
	tagSet       = "!set"
	tagMap       = "!map"
)

func decodeYAML(r io.Reader) (any, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty document")
		}
		return nil, err
	}
	return fromYAML(&doc)
}

func yamlError(n *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("line %d: %s", n.Line, fmt.Sprintf(format, args...))
}

func fromYAML(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, fmt.Errorf("empty document")
		}
		return fromYAML(n.Content[0])
	case yaml.AliasNode:
		return fromYAML(n.Alias)
	case yaml.ScalarNode:
		return yamlScalar(n)
	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			item, err := fromYAML(c)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		switch n.ShortTag() {
		case tagSet:
			return bridge.Set(items), nil
		case "!!seq":
			return items, nil
		}
		return nil, yamlError(n, "unsupported tag %s on sequence", n.Tag)
	case yaml.MappingNode:
		return yamlMapping(n)
	}
	return nil, yamlError(n, "unexpected node kind %d", n.Kind)
}

func yamlScalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case tagUndefined:
		return bridge.Undefined, nil
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		err := n.Decode(&b)
		return b, err
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return i, nil
		}
		var u uint64
		if err := n.Decode(&u); err == nil {
			return u, nil
		}
		var f float64
		err := n.Decode(&f)
		return f, err
	case "!!float":
		var f float64
		err := n.Decode(&f)
		return f, err
	case "!!str":
		return n.Value, nil
	}
	return nil, yamlError(n, "unsupported tag %s", n.Tag)
}

// yamlMapping keeps the key order of the document. Mappings with only string
// keys become records unless tagged !map.
func yamlMapping(n *yaml.Node) (any, error) {
	tag := n.ShortTag()
	if tag != tagMap && tag != "!!map" {
		return nil, yamlError(n, "unsupported tag %s on mapping", n.Tag)
	}
	stringKeys := true
	for i := 0; i < len(n.Content); i += 2 {
		if k := n.Content[i]; k.Kind != yaml.ScalarNode || k.ShortTag() != "!!str" {
			stringKeys = false
		}
	}
	if stringKeys && tag != tagMap {
		fields := make(bridge.Fields, 0, len(n.Content)/2)
		seen := make(map[string]bool, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			name := n.Content[i]
			if seen[name.Value] {
				return nil, yamlError(name, "duplicate key %q", name.Value)
			}
			seen[name.Value] = true
			v, err := fromYAML(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			fields = append(fields, bridge.Field{Name: n.Content[i].Value, Value: v})
		}
		return fields, nil
	}
	pairs := make(bridge.Pairs, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, err := fromYAML(n.Content[i])
		if err != nil {
			return nil, err
		}
		v, err := fromYAML(n.Content[i+1])
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, bridge.Pair{Key: k, Value: v})
	}
	return pairs, nil
}
