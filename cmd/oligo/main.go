// cmd/oligo/main.go
package main

import (
	"oligo/internal/app"
	"oligo/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }
