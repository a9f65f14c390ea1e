package main

import "github.com/hmans/library/cmd"

func main() {
	cmd.Execute()
}
