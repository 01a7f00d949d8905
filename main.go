// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/packager/packager/cmd/packager"

func main() {
	cmd.Execute()
}
