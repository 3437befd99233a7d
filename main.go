package main

import "github.com/naka-gawa/review-kpi/cmd"

func main() {
	cmd.Execute()
}
