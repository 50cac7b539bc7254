package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers the content constructors as globals.
func registerAPI(L *lua.LState, coll *collector) {
	// Game { title = "...", ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		coll.game = L.CheckTable(1)
		return 0
	}))

	// Scaling { health = {base, per_level}, attack = {...}, defense = {...} }
	L.SetGlobal("Scaling", L.NewFunction(func(L *lua.LState) int {
		coll.scaling = L.CheckTable(1)
		return 0
	}))

	// Rewards { victory_berries = 100, multiplier = 1.5, ... }
	L.SetGlobal("Rewards", L.NewFunction(func(L *lua.LState) int {
		coll.rewards = L.CheckTable(1)
		return 0
	}))

	// Region "id" { ... }, curried: Region("id") returns a function that takes a table.
	L.SetGlobal("Region", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			coll.regions = append(coll.regions, rawRegion{id: id, table: L.CheckTable(1)})
			return 0
		}))
		return 1
	}))

	// Enemy "id" { region = "...", ... }, curried.
	L.SetGlobal("Enemy", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			coll.enemies = append(coll.enemies, rawEnemy{id: id, table: L.CheckTable(1)})
			return 0
		}))
		return 1
	}))

	// Range(min, max) builds the two-element tables used for levels and
	// jitter, so content can write health = Range(90, 110).
	L.SetGlobal("Range", L.NewFunction(func(L *lua.LState) int {
		lo := L.CheckNumber(1)
		hi := L.CheckNumber(2)
		tbl := L.NewTable()
		tbl.RawSetInt(1, lo)
		tbl.RawSetInt(2, hi)
		L.Push(tbl)
		return 1
	}))
}
