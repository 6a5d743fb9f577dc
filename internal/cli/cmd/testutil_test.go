// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package cmd

import (
	"bytes"
	"path/filepath"
	"testing"
)

const testdata = "../../fixture/testdata"

func newTestCLI(t *testing.T, envVars ...string) (*CLI, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	homeDir := filepath.Join(t.TempDir(), ".jsbridge")
	env := []string{"JSBRIDGE_HOME=" + homeDir}
	env = append(env, envVars...)
	var (
		stdout bytes.Buffer
		stderr bytes.Buffer
	)
	cli, err := New(&stdout, &stderr, env)
	if err != nil {
		t.Fatal(err)
	}
	return cli, &stdout, &stderr
}

func fixturePath(name string) string { return filepath.Join(testdata, name) }
