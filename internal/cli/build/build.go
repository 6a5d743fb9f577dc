// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package build

// Version is the jsbridge release version, set with -ldflags at release time.
var Version string = "0.0.0-devel"
