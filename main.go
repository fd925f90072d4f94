package main

import (
	"github.com/mattjaikaran/matt-stack/cmd"
)

func main() {
	cmd.Execute()
}
