package main

import "github.com/tunsmm/diary-network/cmd/diary/commands"

func main() {
	commands.Execute()
}
