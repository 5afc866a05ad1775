package main

import "github.com/allnighter/allnighter/cmd/allnighter"

func main() {
	allnighter.Execute()
}
