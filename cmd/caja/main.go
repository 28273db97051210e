package main

import "github.com/cajapos/caja/cmd/caja/commands"

func main() {
	commands.Execute()
}
