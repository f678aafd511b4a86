package main

import "docharvester/cmd"

func main() {
	cmd.Execute()
}
