// SPDX-License-Identifier: MIT

// Package symbol holds the static rule tables of the pipeline: the ten stems,
// the twelve branches, the five elements with their generation and control
// cycles, the ten relational roles, hidden stems, the clash and combination
// pair tables, the vault set, seasonal phases and canonical branch positions.
//
// Everything here is immutable lookup data plus pure functions over it.
// Parsing (ParseStem, ParseBranch, ParseChart) is the only way to create
// symbols from text; invalid input is reported with package sentinels.
//
// Example:
//
//	chart, _ := symbol.ParseChart([]string{"甲子", "丙寅", "甲申", "乙亥"})
//	ref, _ := symbol.ParseStem("甲")
//	role := symbol.StemRole(ref, chart.Pillars[0].Stem)
//	// role == symbol.Companion
package symbol
