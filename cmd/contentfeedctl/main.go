// Command contentfeedctl manages content feed items from the shell.
package main

import "github.com/jonesrussell/north-cloud/content-feed/internal/cli"

func main() {
	cli.Main()
}
