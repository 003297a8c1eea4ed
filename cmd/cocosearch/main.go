// Command cocosearch indexes a source tree into Postgres+pgvector and
// serves hybrid semantic and keyword search over it.
package main

import "github.com/cocosearch/cocosearch/internal/cli"

func main() {
	cli.Execute()
}
