package main

import "github.com/skipper-desktop/skipctl/cmd"

func main() {
	cmd.Execute()
}
