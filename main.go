package main

import "nathanbeddoewebdev/vitalmetrics/cmd"

func main() {
	cmd.Execute()
}
