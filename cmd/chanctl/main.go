// Copyright 2016 Aleksandr Demakin. All rights reserved.

// Command chanctl runs message channel manifests and benchmarks channels.
package main

import (
	"os"

	"github.com/nxgtw/go-msgchan/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
