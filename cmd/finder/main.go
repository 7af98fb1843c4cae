package main

import "github.com/supplierlens/backend/internal/cli"

func main() {
	cli.Execute()
}
