// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-lib.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cpuselect

import (
	"strconv"
	"strings"

	cclog "github.com/AlexisC0de/likwid/ccLogger"
)

// item is one parsed element of an indexlist: either a single index (Lo
// == Hi, Step == 1) or an inclusive range, ascending or descending.
type item struct {
	Lo, Hi int
	Step   int // +1 ascending, -1 descending
}

// width is the number of indices this item expands to.
func (it item) width() int {
	if it.Step > 0 {
		return it.Hi - it.Lo + 1
	}
	return it.Lo - it.Hi + 1
}

// values yields the item's indices in order.
func (it item) values() []int {
	out := make([]int, 0, it.width())
	if it.Step > 0 {
		for j := it.Lo; j <= it.Hi; j++ {
			out = append(out, j)
		}
	} else {
		for j := it.Lo; j >= it.Hi; j-- {
			out = append(out, j)
		}
	}
	return out
}

// parseIndexList parses a comma-separated indexlist ("0,2,5-3,7") into
// items, preserving textual order. A malformed item is skipped with a
// diagnostic; parsing continues with whatever survives.
func parseIndexList(s string) []item {
	var items []item
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if i := strings.IndexByte(tok, '-'); i > 0 {
			lo, err1 := strconv.Atoi(tok[:i])
			hi, err2 := strconv.Atoi(tok[i+1:])
			if err1 != nil || err2 != nil {
				cclog.Errorf("cpuselect: invalid range %q in indexlist", tok)
				continue
			}
			step := 1
			if lo > hi {
				step = -1
			}
			items = append(items, item{Lo: lo, Hi: hi, Step: step})
			continue
		}
		v, err := strconv.Atoi(tok)
		if err != nil {
			cclog.Errorf("cpuselect: invalid index %q in indexlist", tok)
			continue
		}
		items = append(items, item{Lo: v, Hi: v, Step: 1})
	}
	return items
}
