package main

import "github.com/theakshaypant/opscal/cmd/opscal/cmd"

func main() {
	cmd.Execute()
}
