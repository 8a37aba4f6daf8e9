package main

import "github.com/Manju4599/data-cleaner-app/cmd"

func main() {
	cmd.Execute()
}
