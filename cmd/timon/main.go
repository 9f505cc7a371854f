package main

import "github.com/timon-db/timon/internal/cli"

func main() {
	cli.Execute()
}
