package main

import "github.com/rustyeddy/tradestats/internal/cli"

func main() {
	cli.Execute()
}
