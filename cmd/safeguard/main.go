package main

import "github.com/slconnect/safeguard/internal/cli"

func main() {
	cli.Execute()
}
