package main

import "essaypilot/cmd"

func main() {
	cmd.Execute()
}
