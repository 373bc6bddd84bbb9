package main

import "github.com/littleRiceZhou/auto-aspen/cmd"

func main() {
	cmd.Execute()
}
