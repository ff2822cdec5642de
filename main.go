package main

import "github.com/Mohsinsiddi/namcli/cmd"

func main() {
	cmd.Execute()
}
