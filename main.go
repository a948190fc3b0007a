package main

import "github.com/iksnae/chat-analytics/cmd"

func main() {
	cmd.Execute()
}
