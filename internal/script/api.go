package script

import (
	"fmt"
	"math"

	"github.com/dekarrin/notea/internal/action"
	"github.com/dekarrin/notea/internal/world"
	lua "github.com/yuin/gopher-lua"
)

// Labels with a meaning of their own in scripts.
const (
	LabelPlayer  = "player"
	LabelHere    = "here"
	LabelNowhere = "nowhere"
)

func injectGameAPI(L *lua.LState, s action.Session) *lua.LTable {
	api := L.NewTable()

	L.SetField(api, "narrate", L.NewClosure(apiNarrate(s)))
	L.SetField(api, "run", L.NewClosure(apiRun(s)))
	L.SetField(api, "get", L.NewClosure(apiGet(s)))
	L.SetField(api, "set", L.NewClosure(apiSet(s)))
	L.SetField(api, "move", L.NewClosure(apiMove(s)))
	L.SetField(api, "location", L.NewClosure(apiLocation(s)))
	L.SetField(api, "here", L.NewClosure(apiHere(s)))
	L.SetField(api, "holding", L.NewClosure(apiHolding(s)))
	L.SetField(api, "score", L.NewClosure(apiScore(s)))
	L.SetField(api, "moves", L.NewClosure(apiMoves(s)))
	L.SetField(api, "finish", L.NewClosure(apiFinish(s)))

	return api
}

// thingArg gets the thing named by the label in argument n, raising a Lua error
// if there is none.
func thingArg(L *lua.LState, s action.Session, n int) *world.Thing {
	label := L.CheckString(n)
	t := lookup(s, label)
	if t == nil {
		L.ArgError(n, fmt.Sprintf("nothing is labeled %q", label))
	}
	return t
}

func lookup(s action.Session, label string) *world.Thing {
	switch label {
	case LabelPlayer:
		return s.PC()
	case LabelHere:
		return s.Here()
	case LabelNowhere:
		return s.World().Nowhere()
	}
	t, ok := s.World().ByLabel(label)
	if !ok {
		return nil
	}
	return t
}

func labelOf(s action.Session, t *world.Thing) lua.LValue {
	switch {
	case t == nil:
		return lua.LNil
	case t == s.World().Nowhere():
		return lua.LString(LabelNowhere)
	default:
		return lua.LString(t.Label)
	}
}

func apiNarrate(s action.Session) func(L *lua.LState) int {
	return func(L *lua.LState) int {
		s.Narrate(L.CheckString(1))
		return 0
	}
}

func apiRun(s action.Session) func(L *lua.LState) int {
	return func(L *lua.LState) int {
		err := s.Do(L.CheckString(1))
		L.Push(lua.LBool(err == nil))
		return 1
	}
}

func apiGet(s action.Session) func(L *lua.LState) int {
	return func(L *lua.LState) int {
		t := thingArg(L, s, 1)
		attr := L.CheckString(2)
		L.Push(toLua(t.Get(attr)))
		return 1
	}
}

func apiSet(s action.Session) func(L *lua.LState) int {
	return func(L *lua.LState) int {
		t := thingArg(L, s, 1)
		attr := L.CheckString(2)
		lv := L.CheckAny(3)

		if lv == lua.LNil {
			t.Unset(attr)
			return 0
		}

		v, err := fromLua(lv)
		if err != nil {
			L.ArgError(3, err.Error())
			return 0
		}
		if err := t.Set(attr, v); err != nil {
			L.RaiseError("%s", err.Error())
		}
		return 0
	}
}

func apiMove(s action.Session) func(L *lua.LState) int {
	return func(L *lua.LState) int {
		t := thingArg(L, s, 1)
		dest := thingArg(L, s, 2)
		if err := s.World().SetLocation(t, dest); err != nil {
			L.RaiseError("%s", err.Error())
		}
		return 0
	}
}

func apiLocation(s action.Session) func(L *lua.LState) int {
	return func(L *lua.LState) int {
		t := thingArg(L, s, 1)
		L.Push(labelOf(s, s.World().Location(t)))
		return 1
	}
}

func apiHere(s action.Session) func(L *lua.LState) int {
	return func(L *lua.LState) int {
		L.Push(labelOf(s, s.Here()))
		return 1
	}
}

func apiHolding(s action.Session) func(L *lua.LState) int {
	return func(L *lua.LState) int {
		t := thingArg(L, s, 1)
		L.Push(lua.LBool(s.World().Holds(s.PC(), t)))
		return 1
	}
}

func apiScore(s action.Session) func(L *lua.LState) int {
	return func(L *lua.LState) int {
		if n := L.OptInt(1, 0); n != 0 {
			s.AddScore(n)
		}
		L.Push(lua.LNumber(s.Score()))
		return 1
	}
}

func apiMoves(s action.Session) func(L *lua.LState) int {
	return func(L *lua.LState) int {
		L.Push(lua.LNumber(s.Moves()))
		return 1
	}
}

func apiFinish(s action.Session) func(L *lua.LState) int {
	return func(L *lua.LState) int {
		s.End()
		return 0
	}
}

func toLua(v interface{}) lua.LValue {
	switch tv := v.(type) {
	case bool:
		return lua.LBool(tv)
	case int:
		return lua.LNumber(tv)
	case float64:
		return lua.LNumber(tv)
	case string:
		return lua.LString(tv)
	default:
		return lua.LNil
	}
}

// fromLua converts a Lua value to an attribute value. Numbers with no
// fractional part become ints.
func fromLua(lv lua.LValue) (interface{}, error) {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v), nil
	case lua.LNumber:
		f := float64(v)
		if f == math.Trunc(f) && math.Abs(f) < math.MaxInt32 {
			return int(f), nil
		}
		return f, nil
	case lua.LString:
		return string(v), nil
	default:
		return nil, fmt.Errorf("attributes cannot hold a %s", lv.Type().String())
	}
}
