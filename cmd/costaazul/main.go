// Command costaazul はホテル「Costa Azul」の予約ウィザードAPIを起動する。
//
// 使い方:
//
//	costaazul [serve|migrate|cleanup|healthcheck]
package main

import (
	"fmt"
	"os"

	"github.com/hitoshi/costaazul/internal/app"
)

func main() {
	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "costaazul: %v\n", err)
		os.Exit(1)
	}
}
