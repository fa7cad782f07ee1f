package main

import "github.com/trailmixer/trailmixer/internal/cli"

func main() {
	cli.Main()
}
