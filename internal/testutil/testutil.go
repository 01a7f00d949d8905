// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"testing"
)

// MustSetenv sets key to value, for example a PACKAGER_* config override,
// and returns a func that puts the previous value back or unsets key if it
// was absent.
func MustSetenv(t testing.TB, key, value string) func() {
	t.Helper()
	previous, had := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set env %s: %v", key, err)
	}
	return func() { restoreEnv(t, key, previous, had) }
}

// MustUnsetenv removes key, typically an XDG_* directory override so paths
// fall back to $HOME, and returns a func that restores it.
func MustUnsetenv(t testing.TB, key string) func() {
	t.Helper()
	previous, had := os.LookupEnv(key)
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("failed to unset env %s: %v", key, err)
	}
	return func() { restoreEnv(t, key, previous, had) }
}

func restoreEnv(t testing.TB, key, previous string, had bool) {
	if !had {
		if err := os.Unsetenv(key); err != nil {
			t.Errorf("failed to unset env %s: %v", key, err)
		}
		return
	}
	if err := os.Setenv(key, previous); err != nil {
		t.Errorf("failed to restore env %s: %v", key, err)
	}
}
