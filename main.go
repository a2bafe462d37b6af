package main

import "JVMProfiler/pkg/commands"

func main() {
	commands.Execute()
}
