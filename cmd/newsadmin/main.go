// Command newsadmin is the operator CLI: schema, seed data, accounts,
// taxonomy and article approval.
package main

import (
	"os"
)

func main() {
	a := &app{}
	err := newRootCmd(a).Execute()
	a.close()
	if err != nil {
		os.Exit(1)
	}
}
