package main

import "variant-manager/cmd"

func main() {
	cmd.Execute()
}
