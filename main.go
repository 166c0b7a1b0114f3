package main

import "github.com/Kariqs/mebel-api/cmd/commands"

func main() {
	commands.Execute()
}
