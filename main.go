package main

import "mining-chatbot/cmd"

func main() {
	cmd.Execute()
}
