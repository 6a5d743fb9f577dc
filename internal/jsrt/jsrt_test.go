// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package jsrt

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vespa-engine/vespa/jsbridge/go/internal/bridge"
	"github.com/vespa-engine/vespa/jsbridge/go/internal/value"
)

const longString = "long long long long long long long long long long long string"

type sample struct {
	U  bridge.Optional[float64] `bridge:"u"`
	B  bool                     `bridge:"b"`
	N  *int                     `bridge:"n"`
	D1 float64                  `bridge:"d1"`
	D2 float64                  `bridge:"d2"`
	D3 float64                  `bridge:"d3"`
	D4 float64                  `bridge:"d4"`
	S1 string                   `bridge:"s1"`
	S2 string                   `bridge:"s2"`
}

func newRuntime(t *testing.T, opts ...Option) *Runtime {
	t.Helper()
	r, err := New(opts...)
	require.NoError(t, err)
	return r
}

func TestChecksPass(t *testing.T) {
	r := newRuntime(t)

	obj, err := bridge.ConvertObject(sample{B: true, D1: 1.5, D2: -1, D3: 1, D4: 9007199254740992, S1: "short", S2: longString})
	require.NoError(t, err)
	assert.NoError(t, r.Check("check_obj", obj))

	arr, err := bridge.ConvertArray([]int{1, 2, 3})
	require.NoError(t, err)
	assert.NoError(t, r.Check("check_arr", arr))

	set, err := bridge.ConvertSet([]int{1, 2, 3, 1})
	require.NoError(t, err)
	assert.NoError(t, r.Check("check_set", set))

	m, err := bridge.ConvertMap(map[int]bool{1: true, 2: false})
	require.NoError(t, err)
	assert.NoError(t, r.Check("check_map", m))
}

func TestChecksReject(t *testing.T) {
	r := newRuntime(t)
	tests := []struct {
		check string
		input any
		msg   string
	}{
		{"check_obj", sample{N: new(int)}, "obj.b !== true"},
		{"check_obj", bridge.Fields{{Name: "u", Value: nil}}, "obj.u !== undefined"},
		{"check_obj", bridge.Fields{}, "obj.u is missing"},
		{"check_arr", bridge.Set{1, 2, 3}, "Array.isArray(arr) == false"},
		{"check_arr", []int{1, 2}, "arr.length !== 3"},
		{"check_arr", []float64{1, 2.5, 3}, "arr[1] !== 2"},
		{"check_set", bridge.Set{1, 2, 4}, "!set.has(3)"},
		{"check_set", []int{1, 2, 3}, "!(set instanceof Set)"},
		{"check_map", bridge.Pairs{{Key: 1, Value: true}, {Key: 2, Value: nil}}, "map.get(2) !== false"},
		{"check_map", bridge.Pairs{{Key: "1", Value: true}, {Key: 2, Value: false}}, "map.get(1) !== true"},
	}
	for _, tt := range tests {
		v, err := bridge.Convert(tt.input)
		require.NoError(t, err)
		err = r.Check(tt.check, v)
		var checkErr *CheckError
		require.True(t, errors.As(err, &checkErr), "%s: %v", tt.check, err)
		assert.Equal(t, tt.check, checkErr.Function)
		assert.Equal(t, tt.msg, checkErr.Message)
		assert.Equal(t, tt.check+" failed: "+tt.msg, err.Error())
	}
}

func TestCheckUnknownFunction(t *testing.T) {
	r := newRuntime(t)
	err := r.Check("check_nothing", value.Null())
	require.Error(t, err)
	var checkErr *CheckError
	assert.False(t, errors.As(err, &checkErr))
	assert.Contains(t, err.Error(), `no function named "check_nothing"`)
}

func TestExportScalars(t *testing.T) {
	r := newRuntime(t)
	require.NoError(t, r.SetGlobal("u", value.Absent()))
	require.NoError(t, r.SetGlobal("n", value.Null()))
	require.NoError(t, r.SetGlobal("limit", value.Number(9007199254740992)))
	require.NoError(t, r.SetGlobal("nan", value.Number(math.NaN())))
	require.NoError(t, r.SetGlobal("negzero", value.Number(math.Copysign(0, -1))))
	require.NoError(t, r.SetGlobal("s", value.String("12345678")))

	for _, expr := range []string{
		"u === undefined",
		"n === null",
		"u !== n",
		"limit === 9007199254740992",
		"limit === Math.pow(2, 53)",
		"Number.isNaN(nan)",
		"Object.is(negzero, -0)",
		"s === '12345678'",
	} {
		v, err := r.VM().RunString(expr)
		require.NoError(t, err, expr)
		assert.True(t, v.ToBoolean(), expr)
	}
	_, err := r.Export(value.Missing)
	assert.Error(t, err)
}

func TestExportAggregates(t *testing.T) {
	r := newRuntime(t)
	m := value.NewMap()
	m.Put(value.Number(1), value.Absent())
	m.Put(value.String("k"), value.Null())
	require.NoError(t, r.SetGlobal("m", m))
	v, err := r.VM().RunString("[m.size, m.has(1), m.get(1) === undefined, m.get('k') === null, m.has(3)].join()")
	require.NoError(t, err)
	assert.Equal(t, "2,true,true,true,false", v.String())

	v, err = r.VM().RunString("Array.from(m.keys()).join()")
	require.NoError(t, err)
	assert.Equal(t, "1,k", v.String())
}

func TestRoundTrip(t *testing.T) {
	r := newRuntime(t)
	orig, err := bridge.Convert(bridge.Fields{
		{Name: "u", Value: bridge.Undefined},
		{Name: "n", Value: nil},
		{Name: "b", Value: false},
		{Name: "i", Value: -7},
		{Name: "d", Value: 0.25},
		{Name: "big", Value: 1e300},
		{Name: "short", Value: "abc"},
		{Name: "long", Value: longString},
		{Name: "arr", Value: []any{1, "two", []int{3}}},
		{Name: "set", Value: bridge.Set{1, "1", nil}},
		{Name: "map", Value: bridge.Pairs{{Key: 1, Value: true}, {Key: "x", Value: bridge.Fields{{Name: "y", Value: 2}}}}},
	})
	require.NoError(t, err)

	exported, err := r.Export(orig)
	require.NoError(t, err)
	back, err := r.Import(exported)
	require.NoError(t, err)
	assert.True(t, value.Equal(orig, back), "%s != %s", value.ToString(orig), value.ToString(back))
	assert.Equal(t, value.ToString(orig), value.ToString(back))
	assert.True(t, value.IsShort(back.Field("short")))
	assert.False(t, value.IsShort(back.Field("long")))
	assert.True(t, back.Field("i").IsInteger())
}

func TestEval(t *testing.T) {
	r := newRuntime(t)
	v, err := r.Eval("({a: [1, 1.5, 'x'], s: new Set([1, 1, 2]), m: new Map([[1, null]]), u: undefined})")
	require.NoError(t, err)
	assert.Equal(t, `{"a":[1,1.5,"x"],"s":Set[1,2],"m":Map{1=>null},"u":undefined}`, value.ToString(v))

	v, err = r.Eval("Math.pow(2, 53)")
	require.NoError(t, err)
	assert.True(t, v.IsInteger())
	assert.Equal(t, int64(9007199254740992), v.AsLong())

	v, err = r.Eval("Math.pow(2, 53) * 2")
	require.NoError(t, err)
	assert.False(t, v.IsInteger())
}

func TestImportUnsupported(t *testing.T) {
	r := newRuntime(t)
	tests := map[string]string{
		"({f: function () {}})":        "unsupported type function at .f",
		"[1, Symbol('s')]":             "unsupported type symbol at [1]",
		"new Map([['k', new Date()]])": `unsupported type date at {"k"}`,
		"/re/":                         "unsupported type regexp",
	}
	for src, msg := range tests {
		_, err := r.Eval(src)
		assert.EqualError(t, err, msg, src)
		assert.True(t, errors.Is(err, bridge.ErrUnsupportedType), src)
	}

	_, err := r.Eval("var a = {}; a.self = a; a")
	assert.True(t, errors.Is(err, bridge.ErrUnsupportedType))
}

func TestCapabilities(t *testing.T) {
	r := newRuntime(t)
	arr, err := bridge.ConvertArray([]int{1, 2, 3})
	require.NoError(t, err)
	jsArr, err := r.Export(arr)
	require.NoError(t, err)
	seq, err := r.Sequence(jsArr)
	require.NoError(t, err)
	assert.Equal(t, 3, seq.Len())
	assert.Equal(t, int64(2), seq.Index(1).ToInteger())
	assert.True(t, goja.IsUndefined(seq.Index(3)))

	set, err := bridge.ConvertSet([]int{1, 2, 3, 3})
	require.NoError(t, err)
	jsSet, err := r.Export(set)
	require.NoError(t, err)
	coll, err := r.Collection(jsSet)
	require.NoError(t, err)
	assert.Equal(t, 3, coll.Size())
	for _, n := range []int{1, 2, 3} {
		assert.True(t, coll.Has(r.VM().ToValue(n)))
	}
	assert.False(t, coll.Has(r.VM().ToValue(4)))
	assert.False(t, coll.Has(r.VM().ToValue("1")))

	m, err := bridge.ConvertMap(map[int]bool{1: true, 2: false})
	require.NoError(t, err)
	jsMap, err := r.Export(m)
	require.NoError(t, err)
	assoc, err := r.Association(jsMap)
	require.NoError(t, err)
	assert.Equal(t, 2, assoc.Size())
	assert.True(t, assoc.Get(r.VM().ToValue(1)).ToBoolean())
	assert.Equal(t, false, assoc.Get(r.VM().ToValue(2)).Export())
	assert.True(t, goja.IsUndefined(assoc.Get(r.VM().ToValue(3))))

	_, err = r.Sequence(jsSet)
	assert.EqualError(t, err, "expected array, got set")
	_, err = r.Collection(jsArr)
	assert.EqualError(t, err, "expected set, got array")
	_, err = r.Association(goja.Null())
	assert.EqualError(t, err, "expected map, got object")
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScriptOverridesChecks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lenient.js", `
function check_set(set) {
    if (!set.has(1))
        throw new Error('!set.has(1)');
}
`)
	r := newRuntime(t, WithBaseDir(dir))
	require.NoError(t, r.LoadScript("lenient.js"))

	set, err := bridge.ConvertSet([]int{1})
	require.NoError(t, err)
	assert.NoError(t, r.Check("check_set", set), "the loaded script replaces the built in check")
	arr, err := bridge.ConvertArray([]int{1})
	require.NoError(t, err)
	assert.Error(t, r.Check("check_arr", arr), "other checks are still built in")

	assert.Error(t, r.LoadScript("missing.js"))
	writeFile(t, dir, "broken.js", "function (")
	assert.Error(t, r.LoadScript("broken.js"))
}

func TestRequire(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "helper.js", `exports.next = function (x) { return [x, x + 1]; };`)
	writeFile(t, dir, "main.js", `
var helper = require('./helper.js');
var checks = require('bridge:checks');
function check_twice(v) {
    checks.check_arr([1].concat(helper.next(v)));
}
`)
	r := newRuntime(t, WithBaseDir(dir))
	require.NoError(t, r.LoadScript(filepath.Join(dir, "main.js")))
	assert.NoError(t, r.Check("check_twice", value.Number(2)))
	err := r.Check("check_twice", value.Number(5))
	assert.EqualError(t, err, "check_twice failed: arr[1] !== 2")

	checks, err := r.Require(ChecksModule)
	require.NoError(t, err)
	for _, name := range Checks {
		_, ok := goja.AssertFunction(checks.Get(name))
		assert.True(t, ok, name)
	}
}

func TestExportProtoField(t *testing.T) {
	r := newRuntime(t)
	orig, err := bridge.Convert(bridge.Fields{
		{Name: "__proto__", Value: bridge.Fields{{Name: "polluted", Value: true}}},
		{Name: "a", Value: 1},
	})
	require.NoError(t, err)
	require.NoError(t, r.SetGlobal("obj", orig))

	v, err := r.VM().RunString(`[
		Object.getPrototypeOf(obj) === Object.prototype,
		Object.prototype.hasOwnProperty.call(obj, '__proto__'),
		obj.polluted === undefined,
		Object.keys(obj).join()
	].join()`)
	require.NoError(t, err)
	assert.Equal(t, "true,true,true,__proto__,a", v.String())

	exported, err := r.Export(orig)
	require.NoError(t, err)
	back, err := r.Import(exported)
	require.NoError(t, err)
	assert.Equal(t, value.ToString(orig), value.ToString(back))
}

func TestCheckErrorLocation(t *testing.T) {
	r := newRuntime(t)
	obj, err := bridge.Convert(bridge.Fields{{Name: "u", Value: bridge.Undefined}, {Name: "b", Value: true}, {Name: "n", Value: nil}, {Name: "d1", Value: 2.5}})
	require.NoError(t, err)
	err = r.Check("check_obj", obj)
	var checkErr *CheckError
	require.True(t, errors.As(err, &checkErr))
	assert.Equal(t, "checks.js", checkErr.Location.Filename)
	assert.Equal(t, 16, checkErr.Location.Line)
	require.NotEmpty(t, checkErr.Stack)
	assert.Contains(t, strings.Join(checkErr.Stack, "\n"), "check_obj")

	dir := t.TempDir()
	writeFile(t, dir, "deep.js", `function check_deep(v) {
    helper(v);
}

function helper(v) {
    throw new Error('deep ' + v);
}
`)
	r = newRuntime(t, WithBaseDir(dir))
	require.NoError(t, r.LoadScript("deep.js"))
	err = r.Check("check_deep", value.Number(3))
	require.True(t, errors.As(err, &checkErr))
	assert.Equal(t, "check_deep failed: deep 3", err.Error())
	assert.Equal(t, filepath.Join(dir, "deep.js"), checkErr.Location.Filename)
	assert.Equal(t, 6, checkErr.Location.Line)
	stack := strings.Join(checkErr.Stack, "\n")
	require.Contains(t, stack, "helper")
	require.Contains(t, stack, "check_deep")
	assert.Less(t, strings.Index(stack, "helper"), strings.Index(stack, "check_deep"), "innermost frame first")
}

func TestLoadScriptErrors(t *testing.T) {
	dir := t.TempDir()
	r := newRuntime(t, WithBaseDir(dir))
	tests := []struct {
		name   string
		source string
		line   int
	}{
		{"unparsable.js", "var ok = 1;\nfunction (\n", 2},
		{"redeclared.js", "let a = 1;\nlet a = 2;\n", 2},
		{"throwing.js", "var x = 1;\n\nthrow new Error('boom');\n", 3},
	}
	for _, tt := range tests {
		writeFile(t, dir, tt.name, tt.source)
		err := r.LoadScript(tt.name)
		var scriptErr *ScriptError
		require.True(t, errors.As(err, &scriptErr), "%s: %v", tt.name, err)
		assert.Equal(t, filepath.Join(dir, tt.name), scriptErr.Path, tt.name)
		assert.Equal(t, tt.line, scriptErr.Location.Line, tt.name)
		assert.NotEmpty(t, scriptErr.Message, tt.name)
		assert.Contains(t, err.Error(), fmt.Sprintf("at line %d, column ", tt.line), tt.name)
	}
	err := r.LoadScript("throwing.js")
	assert.True(t, strings.HasPrefix(err.Error(), "could not run "+filepath.Join(dir, "throwing.js")+": boom at line 3"), err.Error())
}

func TestInterrupt(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "loop.js", `function check_loop(v) {
    for (;;) {}
}
`)
	r := newRuntime(t, WithBaseDir(dir))
	require.NoError(t, r.LoadScript("loop.js"))

	err := r.WithTimeout(50*time.Millisecond, func() error { return r.Check("check_loop", value.Null()) })
	var interrupted *InterruptedError
	require.True(t, errors.As(err, &interrupted), "%v", err)
	assert.Equal(t, "check_loop", interrupted.Function)
	assert.Equal(t, "check_loop interrupted: timed out after 50ms", err.Error())
	var gojaErr *goja.InterruptedError
	assert.True(t, errors.As(err, &gojaErr))

	arr, err := bridge.ConvertArray([]int{1, 2, 3})
	require.NoError(t, err)
	assert.NoError(t, r.WithTimeout(time.Minute, func() error { return r.Check("check_arr", arr) }), "the runtime is usable after an interrupt")
	assert.NoError(t, r.WithTimeout(0, func() error { return r.Check("check_arr", arr) }))

	go func() {
		time.Sleep(10 * time.Millisecond)
		r.Interrupt("stopped")
	}()
	err = r.Check("check_loop", value.Null())
	require.True(t, errors.As(err, &interrupted), "%v", err)
	assert.Equal(t, "stopped", interrupted.Reason)
}
