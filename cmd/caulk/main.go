package main

import "github.com/treigua/caulk/internal/cmd"

func main() {
	cmd.Execute()
}
