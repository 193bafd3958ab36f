package main

import "github.com/itsrayland/pwx/cmd"

func main() {
	cmd.Execute()
}
