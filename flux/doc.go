// SPDX-License-Identifier: MIT

// Package flux extracts scalar energies from a chart.
//
// ComputeFlux accumulates, for every slot whose role against the reference
// matches the requested role:
//
//	base_mass × seasonal_phase(element, month_element) × positional_weight(pillar) × structural_bonus
//
// Stems carry base mass 1. Branches are scanned through their hidden stems with
// mass shares 0.6/0.3/0.1 (see symbol.HiddenMassPolicy). The day stem is the
// reference itself and is skipped unless WithDayMaster is given. Results are
// rounded to four decimals.
//
// Vector folds the ten roles into the five role groups and adds the two
// interaction keys: Clash (−Σ√(eᵢeⱼ) over clashing branch pairs, never positive)
// and Combination (signed Σ√(eᵢeⱼ) over combining pairs; positive when the
// combined element equals or generates the reference element).
//
// Every function is pure.
package flux
