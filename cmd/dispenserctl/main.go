package main

import "github.com/JonMunkholm/dispenser/internal/cli"

func main() {
	cli.Execute()
}
