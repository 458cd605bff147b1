package main

import "github.com/bionotebook/seeddata/cmd"

func main() {
	cmd.Execute()
}
