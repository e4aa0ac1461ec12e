package main

import (
	"context"

	"github.com/alexisbeaulieu97/powar/pkg/powar"
)

func main() {
	if err := newRootCmd(powar.Options{}).ExecuteContext(context.Background()); err != nil {
		powar.Fatal(powar.Options{}, err)
	}
}
