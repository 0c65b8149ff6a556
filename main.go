package main

import "github.com/CBx0-dev/YAJE/cmd"

func main() {
	cmd.Execute()
}
