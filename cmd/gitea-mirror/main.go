package main

import "gitea-mirror/internal/cmd"

func main() {
	cmd.Execute()
}
