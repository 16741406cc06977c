// rangeinfer canonicalizes and combines integer value sets, described by
// a signed range, an unsigned range and known bits.
package main // import "honnef.co/go/rangeinfer/cmd/rangeinfer"

import (
	"os"

	log "github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
