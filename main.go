package main

import (
	"github.com/fennelq/oraclescan/cmd"
)

func main() {
	cmd.Execute()
}
