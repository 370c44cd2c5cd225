// svl compiles a declarative chart-spec source file into a self-contained
// interactive HTML document.
package main

import "os"

func main() {
	os.Exit(Execute())
}
