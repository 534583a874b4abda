package main

import "data-integrity/cmd"

func main() {
	cmd.Execute()
}
