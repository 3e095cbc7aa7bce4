package formula

import (
	"bytes"
	"fmt"
	"os"
	"slices"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/ast"
	"github.com/yuin/gopher-lua/parse"
)

// AllGlobals selects every global function of a script as module members.
const AllGlobals = "*"

// Module is a loaded formula script.
type Module struct {
	path   string
	global string
	lines  []string
	funcs  map[string]span
	state  *lua.LState
}

// span is the 1-based line range of a function definition, declaration and
// closing "end" included.
type span struct {
	first, last int
}

type options struct {
	sourceOnly bool
}

// Option configures LoadModule.
type Option func(*options)

// SourceOnly parses the script without running it. Such a module can render
// function sources but cannot Invoke them.
func SourceOnly() Option {
	return func(o *options) { o.sourceOnly = true }
}

// LoadModule parses the Lua script at path and exposes its functions. With
// global set to AllGlobals the members are the script's global functions;
// otherwise they are the functions declared on the global table of that name
// (function Name.fn(...) or function Name:fn(...)).
func LoadModule(path, global string, opts ...Option) (*Module, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Module: path, Err: err}
	}

	chunk, err := parse.Parse(bytes.NewReader(src), path)
	if err != nil {
		return nil, &Error{Module: path, Err: err}
	}

	m := &Module{
		path:   path,
		global: global,
		lines:  strings.Split(strings.ReplaceAll(string(src), "\r\n", "\n"), "\n"),
		funcs:  collectFunctions(chunk, global),
	}

	if o.sourceOnly {
		return m, nil
	}

	proto, err := lua.Compile(chunk, path)
	if err != nil {
		return nil, &Error{Module: path, Err: err}
	}
	L, err := newState()
	if err != nil {
		return nil, &Error{Module: path, Err: err}
	}
	L.Push(L.NewFunctionFromProto(proto))
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		L.Close()
		return nil, &Error{Module: path, Err: err}
	}
	m.state = L
	return m, nil
}

// newState returns an interpreter with only the side-effect free libraries.
func newState() (*lua.LState, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		if err := L.CallByParam(lua.P{Fn: L.NewFunction(lib.fn), NRet: 0, Protect: true}, lua.LString(lib.name)); err != nil {
			L.Close()
			return nil, err
		}
	}
	return L, nil
}

// collectFunctions indexes the top-level function definitions that belong to global.
func collectFunctions(chunk []ast.Stmt, global string) map[string]span {
	funcs := make(map[string]span)
	for _, stmt := range chunk {
		switch s := stmt.(type) {
		case *ast.FuncDefStmt:
			name, ok := memberName(s.Name, global)
			if ok {
				funcs[name] = span{first: firstLine(s.Line(), s.Func.Line()), last: s.Func.LastLine()}
			}
		case *ast.AssignStmt:
			if global != AllGlobals {
				continue
			}
			for i, lhs := range s.Lhs {
				ident, ok := lhs.(*ast.IdentExpr)
				if !ok || i >= len(s.Rhs) {
					continue
				}
				if fn, ok := s.Rhs[i].(*ast.FunctionExpr); ok {
					funcs[ident.Value] = span{first: firstLine(s.Line(), fn.Line()), last: fn.LastLine()}
				}
			}
		}
	}
	return funcs
}

func firstLine(stmt, body int) int {
	if stmt > 0 && stmt <= body {
		return stmt
	}
	return body
}

func memberName(fn *ast.FuncName, global string) (string, bool) {
	if fn.Receiver != nil {
		recv, ok := fn.Receiver.(*ast.IdentExpr)
		return fn.Method, ok && global != AllGlobals && recv.Value == global
	}
	switch f := fn.Func.(type) {
	case *ast.IdentExpr:
		return f.Value, global == AllGlobals
	case *ast.AttrGetExpr:
		obj, ok := f.Object.(*ast.IdentExpr)
		key, keyOK := f.Key.(*ast.StringExpr)
		if ok && keyOK && global != AllGlobals && obj.Value == global {
			return key.Value, true
		}
	}
	return "", false
}

// Path returns the script the module was loaded from.
func (m *Module) Path() string { return m.path }

// Functions lists the module's function names in sorted order.
func (m *Module) Functions() []string {
	names := make([]string, 0, len(m.funcs))
	for name := range m.funcs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Has reports whether the module declares the function.
func (m *Module) Has(name string) bool {
	_, ok := m.funcs[name]
	return ok
}

// Close releases the interpreter.
func (m *Module) Close() {
	if m.state != nil {
		m.state.Close()
		m.state = nil
	}
}

// Invoke calls the named function with positional arguments and returns its
// first result, which must be a number. Supported argument types are nil,
// bool, string, int and float64.
func (m *Module) Invoke(name string, args ...any) (float64, error) {
	if m.state == nil {
		return 0, &Error{Module: m.path, Function: name, Err: fmt.Errorf("module was loaded without execution")}
	}
	L := m.state

	fn := m.lookup(name)
	if fn.Type() != lua.LTFunction {
		return 0, &Error{Module: m.path, Function: name, Err: fmt.Errorf("function not defined")}
	}

	luaArgs := make([]lua.LValue, 0, len(args))
	for _, a := range args {
		v, err := toLua(a)
		if err != nil {
			return 0, &Error{Module: m.path, Function: name, Err: err}
		}
		luaArgs = append(luaArgs, v)
	}

	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, luaArgs...); err != nil {
		return 0, &Error{Module: m.path, Function: name, Err: err}
	}
	ret := L.Get(-1)
	L.Pop(1)

	n, ok := ret.(lua.LNumber)
	if !ok {
		return 0, &Error{Module: m.path, Function: name, Err: fmt.Errorf("returned %s, want number", ret.Type())}
	}
	return float64(n), nil
}

func (m *Module) lookup(name string) lua.LValue {
	L := m.state
	if m.global == AllGlobals {
		return L.GetGlobal(name)
	}
	tbl, ok := L.GetGlobal(m.global).(*lua.LTable)
	if !ok {
		return lua.LNil
	}
	return L.GetField(tbl, name)
}

func toLua(v any) (lua.LValue, error) {
	switch t := v.(type) {
	case nil:
		return lua.LNil, nil
	case bool:
		return lua.LBool(t), nil
	case string:
		return lua.LString(t), nil
	case int:
		return lua.LNumber(t), nil
	case float64:
		return lua.LNumber(t), nil
	default:
		return nil, fmt.Errorf("unsupported argument type %T", v)
	}
}
