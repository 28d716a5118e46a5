package main

import "retail-ledger/internal/commands"

func main() {
	commands.Execute()
}
