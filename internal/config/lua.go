package config

import (
	"fmt"
	"os"

	"github.com/yuin/gluamapper"
	lua "github.com/yuin/gopher-lua"
)

const (
	// GlobalName is the Lua global a configuration file must assign.
	GlobalName = "taskbox"
)

// LoadFile runs the Lua file at path and overlays the keys of its taskbox
// table on top of base. Keys absent from the table keep the value from base.
func LoadFile(path string, base Config) (Config, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("config: unable to read %v, cause %w", path, err)
	}
	return Load(path, string(code), base)
}

// Load is LoadFile for code already in memory, name is only used in errors.
func Load(name, code string, base Config) (Config, error) {
	L := newSandbox()
	defer L.Close()

	fn, err := L.LoadString(code)
	if err != nil {
		return base, fmt.Errorf("config: unable to parse %v, cause %w", name, err)
	}
	L.Push(fn)
	if err := L.PCall(0, 0, nil); err != nil {
		return base, fmt.Errorf("config: unable to run %v, cause %w", name, err)
	}
	tbl, ok := L.GetGlobal(GlobalName).(*lua.LTable)
	if !ok {
		return base, fmt.Errorf("config: %v must assign a table to the global %q", name, GlobalName)
	}
	out := base
	if err := gluamapper.Map(tbl, &out); err != nil {
		return base, fmt.Errorf("config: invalid %v table in %v, cause %w", GlobalName, name, err)
	}
	return out, nil
}

// newSandbox returns a state with only base, table and string libs. Files
// cannot load other files or touch the process beyond reading environment
// variables through env(name, default).
func newSandbox() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, pair := range []struct {
		n string
		f lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
	} {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(pair.f),
			NRet:    0,
			Protect: true,
		}, lua.LString(pair.n)); err != nil {
			panic(err)
		}
	}
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
	L.SetGlobal("env", L.NewFunction(func(L *lua.LState) int {
		val, found := os.LookupEnv(L.CheckString(1))
		if !found {
			L.Push(L.Get(2))
			return 1
		}
		L.Push(lua.LString(val))
		return 1
	}))
	return L
}
