package main

import "github.com/artummeti/lc-vid-generator/internal/cli"

func main() { cli.Main() }
