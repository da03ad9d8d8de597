// Command artomo is the art exhibition recommender CLI and server.
package main

import (
	"fmt"
	"os"

	artomocmder "github.com/papercomputeco/artomo/cmd/artomo"
)

func main() {
	if err := artomocmder.NewArtomoCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
