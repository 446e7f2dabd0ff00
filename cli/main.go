package main

import "github.com/unitechio/tsdate/cli/cmd"

func main() {
	cmd.Execute()
}
