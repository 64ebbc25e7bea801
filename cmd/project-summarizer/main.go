package main

import "github.com/mvp-joe/project-summarizer/internal/cli"

func main() {
	cli.Execute()
}
