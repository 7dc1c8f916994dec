package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/rm-Shayan/finetech-frontened/internal/devserver"
)

func main() {
	if err := devserver.Run(); err != nil {
		log.Error().Err(err).Msg("complaint-devserver exited with error")
		os.Exit(1)
	}
}
