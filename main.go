package main

import "github.com/theirongolddev/hoafund/cmd"

func main() {
	cmd.Execute()
}
