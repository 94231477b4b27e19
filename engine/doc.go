// SPDX-License-Identifier: MIT

// Package engine runs the evaluation pipeline end to end:
//
//	parse chart → BuildNodes → BuildAdjacency → propagate.Run
//	  → frequency vector → Project → Normalize → Matcher.Recognize
//
// Evaluate never fails on data problems. A missing or malformed pillar or
// reference yields a zero tensor that is not matched; a missing pattern or
// transfer row yields zero contributions. Each such condition is recorded in
// Output.Issues. Only a cancelled context or a registry failure is returned
// as an error.
package engine
