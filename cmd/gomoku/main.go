package main

import "github.com/seiwell/gomokuhub/internal/cli"

func main() {
	cli.Execute()
}
