// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	for _, invalid := range []string{"foo", "1.2", "1.2.x", "1.-2.3", "1.2.3-"} {
		_, err := Parse(invalid)
		assert.NotNil(t, err, invalid)
	}

	v, err := Parse("1.2.3")
	assert.Nil(t, err)
	assert.Equal(t, "1.2.3", v.String())

	v, err = Parse("v4.5.6")
	assert.Nil(t, err)
	assert.Equal(t, "4.5.6", v.String())

	v, err = Parse("0.0.0-devel")
	assert.Nil(t, err)
	assert.Equal(t, Version{Label: "devel"}, v)
	assert.True(t, v.IsZero())

	v, err = Parse("1.2.3")
	assert.Nil(t, err)
	assert.False(t, v.IsZero())
}

