package main

import "github.com/KaramelBytes/csvutils-cli/cmd"

func main() {
	cmd.Execute()
}
