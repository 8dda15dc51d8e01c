package main

import (
	"os"

	"github.com/ethan-bns24/ECOSPEED-sub000/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
