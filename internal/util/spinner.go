// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

// Package util contains helpers shared by the jsbridge commands.
package util

import (
	"io"
	"strings"
	"time"

	"github.com/briandowns/spinner"
)

// SpinFunc runs fn while reporting progress for message on a writer.
type SpinFunc func(w io.Writer, message string, fn func() error) error

// Spinner writes message to w and runs fn, animating a spinner after the message until fn returns. The final line
// ends with "done" or "failed" depending on the outcome of fn.
func Spinner(w io.Writer, message string, fn func() error) error {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(w))
	// Stop restores a hidden cursor, which an interrupted process never gets to call
	s.HideCursor = false
	if err := s.Color("blue", "bold"); err != nil {
		return err
	}
	if !strings.HasSuffix(message, " ") {
		message += " "
	}
	s.Prefix = message
	s.FinalMSG = "\r" + message + "done\n"
	s.Start()
	err := fn()
	if err != nil {
		s.FinalMSG = "\r" + message + "failed\n"
	}
	s.Stop()
	return err
}

// NoSpinner runs fn without any progress output.
func NoSpinner(w io.Writer, message string, fn func() error) error { return fn() }
