package main

import (
	"github.com/soundround/soundround/internal/cli"
)

func main() {
	cli.Execute()
}
