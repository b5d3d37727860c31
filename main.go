package main

import "perfect-match-backend/cmd"

func main() {
	cmd.Run()
}
