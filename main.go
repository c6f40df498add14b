package main

import "github.com/dh1tw/opusffi/cmd"

func main() {
	cmd.Execute()
}
