package main

import "github.com/netosnos/spotify-track-organizer/internal/cli"

func main() {
	cli.Execute()
}
