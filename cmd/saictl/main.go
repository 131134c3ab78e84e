// Command saictl drives a switch under test through the SAI harness:
// it runs command scripts, reads attributes and lists the metadata.
package main

import (
	goflag "flag"
	"os"

	log "github.com/golang/glog"
	flag "github.com/spf13/pflag"
)

var version string = "0.0.0"

func main() {
	flag.CommandLine.AddGoFlagSet(goflag.CommandLine) // for compatibility with glog
	rootCmd.PersistentFlags().AddFlagSet(flag.CommandLine)
	defer log.Flush()

	if err := rootCmd.Execute(); err != nil {
		log.Flush()
		os.Exit(1)
	}
}
