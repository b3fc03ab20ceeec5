package main

import "shelf/cmd/shelf/cmd"

func main() {
	cmd.Execute()
}
