package main

import (
	"github.com/wal-g/twrp2tar/cmd/twrp2tar"
)

func main() {
	twrp2tar.Execute()
}
