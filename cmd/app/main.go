package main

import (
	"github.com/faceoff-game/server/internal/app"
	"github.com/faceoff-game/server/internal/config"
)

func main() {
	app.Go(config.Load())
}
