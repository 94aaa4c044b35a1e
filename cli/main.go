package main

import "github.com/agomezg1822/triki-backend/cli/cmd"

func main() {
	cmd.Execute()
}
