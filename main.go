package main

import "github.com/authorshaven/haven-api/cmd"

func main() {
	cmd.Execute()
}
