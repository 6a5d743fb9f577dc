// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	config := New()
	config.Set("format", "yaml")
	config.Set("as", "set")
	config.Set("verbose", "2")
	assert.Equal(t, []string{"as", "format", "verbose"}, config.Keys())

	v, ok := config.Get("verbose")
	assert.True(t, ok)
	assert.Equal(t, "2", v)

	assert.True(t, config.Del("verbose"))
	assert.False(t, config.Del("verbose"))
	_, ok = config.Get("verbose")
	assert.False(t, ok)

	var buf bytes.Buffer
	require.Nil(t, config.Write(&buf))
	assert.Equal(t, "as: set\nformat: yaml\n", buf.String())

	unmarshalled, err := Read(&buf)
	require.Nil(t, err)
	assert.Equal(t, config.Keys(), unmarshalled.Keys())
	v, _ = unmarshalled.Get("format")
	assert.Equal(t, "yaml", v)
}

func TestWriteFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "home", "config.yaml")
	config := New()
	config.Set("color", "never")
	require.Nil(t, config.WriteFile(filename))
	data, err := os.ReadFile(filename)
	require.Nil(t, err)
	assert.Equal(t, "color: never\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(filename))
	require.Nil(t, err)
	assert.Len(t, entries, 1, "temporary file is removed")

	read, err := ReadFile(filename)
	require.Nil(t, err)
	v, ok := read.Get("color")
	assert.True(t, ok)
	assert.Equal(t, "never", v)
}

func TestReadFile(t *testing.T) {
	config, err := ReadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Nil(t, err)
	assert.Empty(t, config.Keys())

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.Nil(t, os.WriteFile(empty, nil, 0o600))
	config, err = ReadFile(empty)
	require.Nil(t, err)
	assert.Empty(t, config.Keys())

	scalars := filepath.Join(t.TempDir(), "scalars.yaml")
	require.Nil(t, os.WriteFile(scalars, []byte("quiet: true\nverbose: 3\n"), 0o600))
	config, err = ReadFile(scalars)
	require.Nil(t, err)
	v, _ := config.Get("quiet")
	assert.Equal(t, "true", v)
	v, _ = config.Get("verbose")
	assert.Equal(t, "3", v)

	broken := filepath.Join(t.TempDir(), "broken.yaml")
	require.Nil(t, os.WriteFile(broken, []byte("- a\n- b\n"), 0o600))
	_, err = ReadFile(broken)
	require.NotNil(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), broken+": invalid config"))
}

func TestConcurrentAccess(t *testing.T) {
	config := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			config.Set("as", "map")
			config.Get("as")
			config.Keys()
		}()
	}
	wg.Wait()
	assert.Equal(t, []string{"as"}, config.Keys())
}
