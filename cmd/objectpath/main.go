package main

import "objectpath/internal/cli"

func main() {
	cli.Execute()
}
