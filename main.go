package main

import (
	"github.com/s0up4200/folioctl/cmd"
)

func main() {
	cmd.Execute()
}
