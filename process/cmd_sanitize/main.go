package main

import "lendbook/process/sanitize"

func main() {
	sanitize.Run()
}
