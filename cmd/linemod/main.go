package main

import "linemod/cmd/linemod/cmd"

func main() {
	cmd.Execute()
}
