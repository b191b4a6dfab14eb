package main

import "github.com/docsage/docsage/internal/adapters/driving/cli"

func main() {
	cli.Execute()
}
