// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build race

package cog_test

import "testing"

// skipRace skips tests that exercise the spscTap lock-free transport. The
// race detector tracks per-variable happens-before and cannot see the
// ring's cross-variable memory ordering (store-release on data, load-
// acquire on index), producing false positives.
func skipRace(tb testing.TB) {
	tb.Helper()
	tb.Skip("skip: spscTap uses cross-variable memory ordering")
}
