package main

import "github.com/covidash/covidash/cmd"

func main() {
	cmd.Execute()
}
