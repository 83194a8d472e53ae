package main

import (
	"os"

	"github.com/StoreAdmin/StoreAdmin/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
