package main

import (
	"github.com/roljohntorralba/imgopt/cmd"
)

func main() {
	cmd.Main()
}
