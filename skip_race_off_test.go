// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build !race

package cog_test

import "testing"

// skipRace is a no-op outside -race: the spscTap tests are exactly the
// tests worth running under the default (non-race) build.
func skipRace(tb testing.TB) {
	tb.Helper()
}
