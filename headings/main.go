package main

import "github.com/geoanim/headings/headings/cmd"

func main() {
	cmd.Execute()
}
