// Command pagingsim simulates virtual-to-physical address translation with a
// single-level page table.
package main

import "github.com/sarchlab/pagingsim/pagingsim/cmd"

func main() {
	cmd.Execute()
}
