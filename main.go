package main

import "college-chat/config"

func main() {
	config.RunServer()
}
