// Command resumectl runs the résumé pipeline on local files without the
// HTTP server or a database.
package main

import (
	"os"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("resumectl failed")
		os.Exit(1)
	}
}
