package main

import (
	"context"
	"os"

	"github.com/dalemusser/regcheck/app"
)

func main() {
	os.Exit(app.New("regcheck").Run(context.Background(), os.Args[1:]))
}
