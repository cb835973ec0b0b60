package main

import "github.com/nick-skriabin/readtime/cmd/readtime/cmd"

func main() {
	cmd.Execute()
}
