package main

import "github.com/bububa/crew-agents/cmd"

func main() {
	cmd.Execute()
}
