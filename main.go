package main

import "github.com/ethtoolkit/ethtools/cli"

func main() {
	cli.Execute()
}
