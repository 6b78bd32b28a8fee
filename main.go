package main

import "github.com/mementomori/mementobot/cmd"

func main() {
	cmd.Execute()
}
