package main

import "github.com/lupohan44/Discourse-Trust-Level-Progress/internal/cmd"

func main() {
	cmd.Execute()
}
