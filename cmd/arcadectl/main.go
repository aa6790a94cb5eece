package main

import "github.com/mcoot/partyarcade/internal/cli"

func main() {
	cli.Execute()
}
