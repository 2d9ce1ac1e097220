package main

import (
	"github.com/faiface/pixel/pixelgl"
	"github.com/retroenv/retrogolib/app"

	"github.com/beanboi7/chyp8/cmd"
)

func main() {
	pixelgl.Run(runChyp8)
}

// runChyp8 runs on the main thread, which pixelgl needs for its window.
func runChyp8() {
	cmd.Execute(app.Context())
}
