package main

import "github.com/ValentinKolb/accelbuf/cmd"

func main() {
	cmd.Execute()
}
