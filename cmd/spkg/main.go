package main

import (
	"os"

	"github.com/goplus/spkg/cmd/spkg/internal"
)

func main() {
	os.Exit(internal.Execute())
}
