package main

import "github.com/iksnae/sentry-client/cmd"

func main() {
	cmd.Execute()
}
