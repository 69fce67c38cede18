package main

import "github.com/diogo/wedeliver/internal/commands"

func main() {
	commands.Execute()
}
