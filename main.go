package main

import "github.com/jvegaf/decklib/cmd"

func main() {
	cmd.Execute()
}
