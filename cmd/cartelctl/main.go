package main

import "github.com/andrescamacho/cartel-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
