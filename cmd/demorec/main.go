package main

import "github.com/bryanchriswhite/demorec/cmd/demorec/commands"

func main() {
	commands.Execute()
}
