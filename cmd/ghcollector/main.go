package main

import "github.com/e-comet/ghcollector/cmd/ghcollector/cmd"

func main() {
	cmd.Execute()
}
