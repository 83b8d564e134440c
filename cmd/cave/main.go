package main

import (
	"log"

	"github.com/alecthomas/kong"
)

var CLI struct {
	Run     RunCmd     `cmd:"" default:"1" help:"Open the mirror window and run the CAVE demo"`
	Sweep   SweepCmd   `cmd:"" help:"Validate the projection solver over a grid of eye positions"`
	Project ProjectCmd `cmd:"" help:"Print one wall's projection for an eye position"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("cave"),
		kong.Description("Stereoscopic CAVE simulation with off-axis wall projections."),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	if err != nil {
		log.Fatal(err)
	}
}
