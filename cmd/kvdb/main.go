// Command kvdb is the command-line front end for the vector store.
//
// With no arguments it starts an interactive session. With "serve" it
// exposes the JSON-over-HTTP boundary. Any other arguments are parsed
// as a single command and run against a fresh store.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	kvdb "github.com/kvdb-io/kvdb"
	"github.com/kvdb-io/kvdb/server"
)

const defaultAddr = ":7878"

const usage = `commands:
  insert <id> <v1> <v2> ...      add or overwrite a vector
  search <v1> <v2> ... [--k_top <n>]
                                 find the n most similar vectors (default 5)
  get <id>                       print a stored vector
  delete <id>                    remove a vector
  list                           print all vectors
  count                          print the number of vectors
  save <path>                    write a snapshot (path, s3:// or minio:// url)
  load <path>                    replace the store from a snapshot
  serve [addr]                   start the HTTP server (default :7878)
  help                           show this help
  exit | quit                    leave the interactive session`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	args := os.Args[1:]

	if len(args) == 0 {
		runInteractive(ctx)
		return
	}

	cmd, err := ParseCommand(strings.Join(args, " "))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	switch cmd.Name {
	case "serve":
		if err := serve(ctx, cmd.Addr); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "help":
		fmt.Println(usage)
	case "exit", "quit":
	default:
		if _, err := execute(ctx, kvdb.New(), cmd, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
}

func serve(ctx context.Context, addr string) error {
	srv := server.New(server.WithLogger(kvdb.NewLogger(nil)))

	return srv.Run(ctx, addr)
}

// runInteractive reads commands until exit, quit, or EOF. A failed
// command reports its error and the session continues.
func runInteractive(ctx context.Context) {
	db := kvdb.New()
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println(`interactive mode, type "help" for commands`)

	for {
		fmt.Print("kvdb> ")

		if !scanner.Scan() {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		cmd, err := ParseCommand(line)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}

		switch cmd.Name {
		case "help":
			fmt.Println(usage)
			continue
		case "exit", "quit":
			return
		case "serve":
			if err := serve(ctx, cmd.Addr); err != nil {
				fmt.Printf("error: %v\n", err)
			}

			continue
		}

		db, err = execute(ctx, db, cmd, os.Stdout)
		if err != nil {
			fmt.Printf("error: %v\n", err)
		}
	}
}
