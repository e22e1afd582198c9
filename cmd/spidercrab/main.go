package main

import "github.com/OscartGiles/spider-crab/internal/cli"

func main() {
	cli.Execute()
}
