package main

import "github.com/sap-gg/ftctl/cmd"

func main() {
	cmd.Execute()
}
