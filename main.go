package main

import "github.com/llehouerou/tunecrate/internal/cli"

func main() {
	cli.Execute()
}
