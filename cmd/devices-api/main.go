package main

import "github.com/r-miyahara/devices-api/internal/runtime"

func main() {
	runtime.New().Run()
}
