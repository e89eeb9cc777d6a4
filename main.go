package main

import "github.com/audiolens/spectro/cmd"

func main() {
	cmd.Execute()
}
