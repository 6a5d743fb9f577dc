// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a semantic version number with an optional pre-release label.
type Version struct {
	Major int
	Minor int
	Patch int
	Label string
}

func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Label != "" {
		s += "-" + v.Label
	}
	return s
}

// IsZero reports whether v is 0.0.0, with any label. Development builds carry the zero version.
func (v Version) IsZero() bool { return v.Major == 0 && v.Minor == 0 && v.Patch == 0 }

// Parse parses a version number like 1.2.3 or v1.2.3-rc1.
func Parse(s string) (Version, error) {
	s = strings.TrimPrefix(s, "v")
	var label string
	if i := strings.IndexByte(s, '-'); i >= 0 {
		s, label = s[:i], s[i+1:]
		if label == "" {
			return Version{}, fmt.Errorf("invalid version number: %s-", s)
		}
	}
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("invalid version number: %s", s)
	}
	var numbers [3]int
	for i, name := range []string{"major", "minor", "patch"} {
		n, err := strconv.Atoi(parts[i])
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("invalid %s version: %s", name, parts[i])
		}
		numbers[i] = n
	}
	return Version{Major: numbers[0], Minor: numbers[1], Patch: numbers[2], Label: label}, nil
}
