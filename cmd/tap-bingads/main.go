package main

import "github.com/dbsmedya/tap-bingads/cmd/tap-bingads/cmd"

func main() {
	cmd.Execute()
}
