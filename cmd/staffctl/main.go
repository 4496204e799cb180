package main

import (
	"github.com/tansive/tansive-workforce/internal/staffsrv/cli"
)

func main() {
	cli.Execute()
}
