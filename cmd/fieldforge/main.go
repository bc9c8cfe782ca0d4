package main

import "github.com/MeKo-Tech/fieldforge/internal/cmd"

func main() {
	cmd.Execute()
}
