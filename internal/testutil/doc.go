// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// The helpers manage process environment variables (MustSetenv, MustUnsetenv)
// and the user's home directory (SetHomeDir) so that path resolution under
// $HOME can be exercised without touching the real user profile.
package testutil
