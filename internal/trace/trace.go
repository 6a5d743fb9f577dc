// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

// leveled diagnostic output for the bridge and its command line tool
package trace

import (
	"fmt"
	"sync"
)

type outputLevel int

const (
	levelError outputLevel = iota - 2
	levelWarning
	levelNone
	levelInfo
	levelTrace
	levelDebug
)

var (
	mu                 sync.Mutex
	currentOutputLevel = levelNone
)

// AdjustVerbosity raises (or, if negative, lowers) the output level. The
// default level prints warnings only.
func AdjustVerbosity(howMuch int) {
	mu.Lock()
	defer mu.Unlock()
	currentOutputLevel = outputLevel(howMuch + int(currentOutputLevel))
}

func SetVerbosity(level int) {
	mu.Lock()
	defer mu.Unlock()
	currentOutputLevel = levelNone + outputLevel(level)
}

func Silent() {
	mu.Lock()
	defer mu.Unlock()
	currentOutputLevel = levelError - 1
}

func enabled(l outputLevel) bool {
	mu.Lock()
	defer mu.Unlock()
	return l <= currentOutputLevel
}

func outputTracing(l outputLevel, v ...any) {
	if !enabled(l) {
		return
	}
	logMessage(l, fmt.Sprintln(v...))
}

func Warning(v ...any) {
	outputTracing(levelWarning, v...)
}

func Info(v ...any) {
	outputTracing(levelInfo, v...)
}

func Trace(v ...any) {
	outputTracing(levelTrace, v...)
}

func Debug(v ...any) {
	outputTracing(levelDebug, v...)
}
