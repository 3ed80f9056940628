package main

import (
	"log"

	"github.com/arathikrishnaam/dueDash/cmd/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}
