package main

import "github.com/Geun-Oh/uxlog/cmd/uxlog"

func main() {
	cmd.Execute()
}
