package main

import "github.com/kanmd/kanmd/cmd"

func main() {
	cmd.Execute()
}
