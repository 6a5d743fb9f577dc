// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	out       io.Writer = os.Stderr
	component           = filepath.Base(os.Args[0])
	now                 = time.Now
)

// SetOutput redirects log lines, returning the previous writer.
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := out
	out = w
	return prev
}

func SetComponent(name string) {
	mu.Lock()
	defer mu.Unlock()
	component = name
}

func levelName(l outputLevel) string {
	switch l {
	case levelWarning:
		return "warning"
	case levelInfo:
		return "info"
	case levelTrace:
		return "trace"
	case levelDebug:
		return "debug"
	}
	return "error"
}

// make a log line: time, component, level and message, tab separated

func logMessage(l outputLevel, msg string) {
	mu.Lock()
	defer mu.Unlock()
	unixTime := float64(now().UnixMicro()) * 1.0e-6
	if !strings.HasSuffix(msg, "\n") {
		msg = msg + "\n"
	}
	fmt.Fprintf(out, "%.6f\t%s\t%s\t%s", unixTime, component, levelName(l), msg)
}
