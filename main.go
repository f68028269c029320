package main

import "github.com/Shalin-Shah-2002/Hianime-API/cmd"

func main() {
	cmd.Execute()
}
