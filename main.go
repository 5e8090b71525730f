package main

import "github.com/relops/relmgr/cmd"

func main() {
	cmd.Execute()
}
