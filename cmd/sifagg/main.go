package main

import "github.com/go-sif/aggregate/cmd/sifagg/cmd"

func main() {
	cmd.Execute()
}
