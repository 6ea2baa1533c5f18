package main

import "github.com/sorbentlab/breakthrough/cmd"

func main() {
	cmd.Execute()
}
