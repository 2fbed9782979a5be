package main

import (
	"log"

	"github.com/eatwhat/eatwhat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
