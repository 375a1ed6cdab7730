package main

import "revealkit/cmd"

func main() {
	cmd.Execute()
}
