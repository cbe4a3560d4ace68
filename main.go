package main

import "github.com/notargets/hydrowave/cmd"

func main() {
	cmd.Execute()
}
