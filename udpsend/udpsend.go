package main

import (
	"os"

	udpsend "github.com/ERnsTL/udpsend/libudpsend"
)

// udpsend sends one UDP datagram, see udpsend.PrintUsage for the options.
func main() {
	os.Exit(udpsend.NewRunner().Run(os.Args))
}
