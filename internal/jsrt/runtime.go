// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

// Package jsrt hands bridged values to an embedded JavaScript runtime and reads
// runtime values back.
package jsrt

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dop251/goja"
	"github.com/dop251/goja/file"
	"github.com/dop251/goja/parser"
	"github.com/dop251/goja_nodejs/require"
	"github.com/vespa-engine/vespa/jsbridge/go/internal/trace"
	"github.com/vespa-engine/vespa/jsbridge/go/internal/value"
)

const classifySource = `(function (v) {
	var t = typeof v;
	if (t !== 'object' || v === null) return t;
	if (Array.isArray(v)) return 'array';
	if (v instanceof Set) return 'set';
	if (v instanceof Map) return 'map';
	if (v instanceof Date) return 'date';
	if (v instanceof RegExp) return 'regexp';
	if (v instanceof Promise) return 'promise';
	return 'object';
})`

const entriesSource = `(function (v) { return Array.from(v); })`

var (
	classifyProgram = goja.MustCompile("classify.js", classifySource, true)
	entriesProgram  = goja.MustCompile("entries.js", entriesSource, true)
)

// Runtime owns a goja runtime. It must only be used from one goroutine at a
// time.
type Runtime struct {
	vm       *goja.Runtime
	modules  *require.RequireModule
	baseDir  string
	classify goja.Callable
	entries  goja.Callable
	setCtor  goja.Value
	mapCtor  goja.Value
	checks   *goja.Object
}

type Option func(*Runtime)

// WithBaseDir resolves relative script paths, and relative require() calls made
// from plain scripts, against dir instead of the working directory.
func WithBaseDir(dir string) Option {
	return func(r *Runtime) { r.baseDir = dir }
}

func New(opts ...Option) (*Runtime, error) {
	r := &Runtime{vm: goja.New()}
	for _, opt := range opts {
		opt(r)
	}
	registry := require.NewRegistry(require.WithLoader(r.load))
	registry.RegisterNativeModule(ChecksModule, loadChecks)
	r.modules = registry.Enable(r.vm)

	var err error
	if r.classify, err = r.helper(classifyProgram); err != nil {
		return nil, err
	}
	if r.entries, err = r.helper(entriesProgram); err != nil {
		return nil, err
	}
	r.setCtor = r.vm.Get("Set")
	r.mapCtor = r.vm.Get("Map")
	if r.setCtor == nil || r.mapCtor == nil {
		return nil, fmt.Errorf("runtime lacks Set or Map")
	}
	return r, nil
}

func (r *Runtime) helper(program *goja.Program) (goja.Callable, error) {
	v, err := r.vm.RunProgram(program)
	if err != nil {
		return nil, err
	}
	fn, ok := goja.AssertFunction(v)
	if !ok {
		return nil, fmt.Errorf("%s is not a function", v)
	}
	return fn, nil
}

// VM exposes the underlying goja runtime.
func (r *Runtime) VM() *goja.Runtime { return r.vm }

func (r *Runtime) resolve(path string) string {
	if filepath.IsAbs(path) || r.baseDir == "" {
		return path
	}
	return filepath.Join(r.baseDir, path)
}

func (r *Runtime) load(path string) ([]byte, error) {
	resolved := r.resolve(path)
	trace.Debug("loading module source", resolved)
	return require.DefaultSourceLoader(resolved)
}

// ScriptError is a script that failed to compile or threw while running.
type ScriptError struct {
	Path     string
	Message  string
	Location file.Position
	Stack    []string
}

func (e *ScriptError) Error() string {
	if e.Location.Line > 0 {
		return fmt.Sprintf("could not run %s: %s at line %d, column %d", e.Path, e.Message, e.Location.Line, e.Location.Column)
	}
	return fmt.Sprintf("could not run %s: %s", e.Path, e.Message)
}

// LoadScript runs a plain script file. Functions it declares become globals and
// take precedence over the built in checks of the same name.
func (r *Runtime) LoadScript(path string) error {
	resolved := r.resolve(path)
	src, err := os.ReadFile(resolved)
	if err != nil {
		return fmt.Errorf("could not read script: %w", err)
	}
	trace.Debug("compiling script", resolved)
	parsed, err := parser.ParseFile(nil, resolved, string(src), 0)
	if err != nil {
		var list parser.ErrorList
		if errors.As(err, &list) && len(list) > 0 {
			return &ScriptError{Path: resolved, Message: list[0].Message, Location: list[0].Position}
		}
		return fmt.Errorf("could not parse %s: %w", resolved, err)
	}
	program, err := goja.CompileAST(parsed, false)
	if err != nil {
		var syntaxErr *goja.CompilerSyntaxError
		if errors.As(err, &syntaxErr) && syntaxErr.File != nil {
			return &ScriptError{Path: resolved, Message: syntaxErr.Message, Location: syntaxErr.File.Position(syntaxErr.Offset)}
		}
		return fmt.Errorf("could not compile %s: %w", resolved, err)
	}
	if _, err := r.vm.RunProgram(program); err != nil {
		var exception *goja.Exception
		if errors.As(err, &exception) {
			frames := exception.Stack()
			return &ScriptError{Path: resolved, Message: exceptionMessage(exception), Location: innermost(frames), Stack: stackLines(frames)}
		}
		return fmt.Errorf("could not run %s: %w", resolved, err)
	}
	return nil
}

// Interrupt stops the script currently running, or the next one to run if
// none is, with reason as the interrupt value. It is safe to call from any
// goroutine.
func (r *Runtime) Interrupt(reason any) {
	r.vm.Interrupt(reason)
}

// WithTimeout runs fn and interrupts whatever script it runs once timeout has
// passed. A timeout of zero or less never interrupts. The interrupt flag is
// cleared before returning, so the runtime stays usable.
func (r *Runtime) WithTimeout(timeout time.Duration, fn func() error) error {
	if timeout <= 0 {
		return fn()
	}
	var (
		mu       sync.Mutex
		finished bool
	)
	timer := time.AfterFunc(timeout, func() {
		mu.Lock()
		defer mu.Unlock()
		if !finished {
			trace.Warning("interrupting script after", timeout)
			r.Interrupt(fmt.Sprintf("timed out after %s", timeout))
		}
	})
	err := fn()
	mu.Lock()
	finished = true
	mu.Unlock()
	timer.Stop()
	r.vm.ClearInterrupt()
	return err
}

// Eval runs source and imports its completion value.
func (r *Runtime) Eval(source string) (value.Value, error) {
	v, err := r.vm.RunString(source)
	if err != nil {
		return nil, err
	}
	return r.Import(v)
}

func (r *Runtime) SetGlobal(name string, v value.Value) error {
	jsValue, err := r.Export(v)
	if err != nil {
		return err
	}
	return r.vm.GlobalObject().Set(name, jsValue)
}

// Require loads a module through the runtime's module registry.
func (r *Runtime) Require(name string) (*goja.Object, error) {
	v, err := r.modules.Require(name)
	if err != nil {
		return nil, err
	}
	return v.ToObject(r.vm), nil
}

// function looks up name among the globals first and the built in checks
// second.
func (r *Runtime) function(name string) (goja.Callable, error) {
	if fn, ok := goja.AssertFunction(r.vm.GlobalObject().Get(name)); ok {
		return fn, nil
	}
	if r.checks == nil {
		checks, err := r.Require(ChecksModule)
		if err != nil {
			return nil, err
		}
		r.checks = checks
	}
	if fn, ok := goja.AssertFunction(r.checks.Get(name)); ok {
		return fn, nil
	}
	return nil, fmt.Errorf("no function named %q", name)
}

// Call exports args and calls the named function.
func (r *Runtime) Call(name string, args ...value.Value) (goja.Value, error) {
	fn, err := r.function(name)
	if err != nil {
		return nil, err
	}
	jsArgs := make([]goja.Value, len(args))
	for i, arg := range args {
		if jsArgs[i], err = r.Export(arg); err != nil {
			return nil, err
		}
	}
	return fn(goja.Undefined(), jsArgs...)
}
