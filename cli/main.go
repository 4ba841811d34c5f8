package main

import "github.com/emrgen/modelhub/cmd"

func main() {
	cmd.Execute()
}
