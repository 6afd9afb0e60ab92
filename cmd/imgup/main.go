package main

import "github.com/jo-hoe/imgup/internal/cli"

func main() {
	cli.Execute()
}
