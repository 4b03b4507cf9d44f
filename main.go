package main

import "github.com/datagate-io/datagate/cmd/datagate"

func main() {
	datagate.Main()
}
