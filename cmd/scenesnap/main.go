package main

import "github.com/scenesnap/scenesnap/internal/cli"

func main() {
	cli.Main()
}
