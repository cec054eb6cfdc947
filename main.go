package main

import "github.com/sabaki-dev/sabaki/cmd"

func main() {
	cmd.Execute()
}
