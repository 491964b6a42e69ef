package main

import "github.com/trustieee/timey-sub000/cmd/timey/root"

func main() {
	root.Execute()
}
