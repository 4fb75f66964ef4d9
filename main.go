// The main package for the mediumsearch executable.
package main

import (
	"github.com/omrzgit/medium-scraper-search/cmd"
)

func main() {
	cmd.Execute()
}
