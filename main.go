// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/invowk/liftoff/cmd/liftoff"

func main() {
	cmd.Execute()
}
