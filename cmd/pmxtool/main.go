// Command pmxtool inspects, verifies and edits PMX model files.
package main

import (
	"fmt"
	"os"

	"github.com/golang/glog"
)

func main() {
	err := rootCmd.Execute()
	glog.Flush()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
