// words-usermgr manages go-words users on the command line
package main

import (
	"fmt"
	"os"

	"github.com/go-while/go-words/internal/config"
)

var appVersion = "-unset-"

func main() {
	config.AppVersion = appVersion
	root, closeDB := newRootCmd(termPassword)
	err := root.Execute()
	if cerr := closeDB(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
