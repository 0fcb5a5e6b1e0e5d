package trace

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"unicode"

	lua "github.com/yuin/gopher-lua"
)

// DefaultMaxOps bounds the number of operations a script may emit.
const DefaultMaxOps = 1_000_000

// ScriptOptions configures Generate.
type ScriptOptions struct {
	// Seed initialises the script's math.random source.
	Seed int64
	// MaxOps aborts the script once exceeded (<= 0 means DefaultMaxOps).
	MaxOps int
	// Args is exposed to the script as the 1-indexed ARGS table.
	Args []string
	// Context aborts a running script once done; nil means no deadline.
	Context context.Context
}

// Generate runs a Lua script and collects the operations it emits through
// the global functions put(key, value) and get(key), in call order.
// Keys must not contain whitespace and values must be single-space
// separated words without `\n`, so that Format output parses back to the
// same operations.
//
//	for i = 1, 100 do
//	  put("k" .. math.random(10), "v" .. i)
//	  get("k" .. math.random(10))
//	end
func Generate(script string, opt ScriptOptions) ([]Operation, error) {
	maxOps := opt.MaxOps
	if maxOps <= 0 {
		maxOps = DefaultMaxOps
	}

	L := lua.NewState()
	defer L.Close()
	if opt.Context != nil {
		L.SetContext(opt.Context)
	}

	var ops []Operation
	emit := func(L *lua.LState, op Operation) int {
		if len(ops) >= maxOps {
			L.RaiseError("operation limit %d exceeded", maxOps)
			return 0
		}
		if op.Key == "" {
			L.ArgError(1, "key must not be empty")
			return 0
		}
		if strings.IndexFunc(op.Key, unicode.IsSpace) >= 0 {
			L.ArgError(1, "key must not contain whitespace")
			return 0
		}
		if strings.Contains(op.Key, `\n`) {
			L.ArgError(1, "key must not contain \\n")
			return 0
		}
		if strings.Contains(op.Value, `\n`) || op.Value != strings.Join(strings.Fields(op.Value), " ") {
			L.ArgError(2, "value must be single-space separated words without line breaks")
			return 0
		}
		ops = append(ops, op)
		return 0
	}

	L.SetGlobal("put", L.NewFunction(func(L *lua.LState) int {
		var value string
		if L.GetTop() >= 2 {
			value = L.ToString(2)
		}
		return emit(L, Operation{Type: Put, Key: L.ToString(1), Value: value})
	}))
	L.SetGlobal("get", L.NewFunction(func(L *lua.LState) int {
		return emit(L, Operation{Type: Get, Key: L.ToString(1)})
	}))

	argsTable := L.NewTable()
	for i, a := range opt.Args {
		argsTable.RawSetInt(i+1, lua.LString(a)) // Lua arrays are 1-indexed
	}
	L.SetGlobal("ARGS", argsTable)

	installRandom(L, opt.Seed)

	if err := L.DoString(script); err != nil {
		if opt.Context != nil && opt.Context.Err() != nil {
			return nil, fmt.Errorf("script aborted: %w", opt.Context.Err())
		}
		return nil, fmt.Errorf("script execution error: %w", err)
	}
	if len(ops) == 0 {
		return nil, ErrNoOperations
	}
	return ops, nil
}

// installRandom replaces math.random/math.randomseed with a source owned by
// this state so that equal seeds give equal traces.
func installRandom(L *lua.LState, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	mathTable, ok := L.GetGlobal("math").(*lua.LTable)
	if !ok {
		return
	}
	L.SetFuncs(mathTable, map[string]lua.LGFunction{
		"random": func(L *lua.LState) int {
			switch L.GetTop() {
			case 0:
				L.Push(lua.LNumber(rng.Float64()))
			case 1:
				m := L.CheckInt(1)
				if m < 1 {
					L.ArgError(1, "interval is empty")
				}
				L.Push(lua.LNumber(rng.Intn(m) + 1))
			default:
				m, n := L.CheckInt(1), L.CheckInt(2)
				if n < m {
					L.ArgError(2, "interval is empty")
				}
				L.Push(lua.LNumber(m + rng.Intn(n-m+1)))
			}
			return 1
		},
		"randomseed": func(L *lua.LState) int {
			rng.Seed(L.CheckInt64(1))
			return 0
		},
	})
}
