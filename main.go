package main

import "github.com/ByLCY/cylscale/cmd"

func main() {
	cmd.Execute()
}
