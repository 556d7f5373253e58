package main

import (
	"fmt"
	"os"

	"github.com/cfusterbarcelo/SAMJ/internal/ctl"
)

func main() {
	if err := ctl.BuildRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
