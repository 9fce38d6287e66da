package main

import "github.com/mcoot/bingobot/internal/cli"

func main() {
	cli.Execute()
}
