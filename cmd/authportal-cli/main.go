package main

import "github.com/nfrund/authportal/cmd/authportal-cli/cmd"

func main() {
	cmd.Execute()
}
