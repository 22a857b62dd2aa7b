package main

import (
	"fmt"
	"strconv"
	"strings"
)

// defaultTopK applies when a search command omits --k_top.
const defaultTopK = 5

// Command is one parsed store command.
type Command struct {
	Name   string
	ID     string
	Vector []float32
	TopK   int
	Path   string
	Addr   string

	// Warning carries a non-fatal grammar complaint, e.g. extra
	// arguments after "list".
	Warning string
}

// ParseCommand parses a single command line. The grammar:
//
//	insert <id> <v1> <v2> ...
//	search <v1> <v2> ... [--k_top <n>]
//	get <id>
//	delete <id>
//	list
//	count
//	save <path>
//	load <path>
//	serve [addr]
//	help | exit | quit
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}

	cmd := Command{Name: strings.ToLower(fields[0])}
	args := fields[1:]

	switch cmd.Name {
	case "insert":
		if len(args) < 2 {
			return Command{}, fmt.Errorf("usage: insert <id> <v1> <v2> ...")
		}

		cmd.ID = args[0]

		vector, err := parseVector(args[1:])
		if err != nil {
			return Command{}, err
		}

		cmd.Vector = vector
	case "search":
		cmd.TopK = defaultTopK

		// A trailing "--k_top <n>" is stripped before the vector parse.
		if n := len(args); n >= 2 && args[n-2] == "--k_top" {
			k, err := strconv.Atoi(args[n-1])
			if err != nil {
				return Command{}, fmt.Errorf("invalid k_top %q", args[n-1])
			}

			cmd.TopK = k
			args = args[:n-2]
		}

		if len(args) == 0 {
			return Command{}, fmt.Errorf("usage: search <v1> <v2> ... [--k_top <n>]")
		}

		vector, err := parseVector(args)
		if err != nil {
			return Command{}, err
		}

		cmd.Vector = vector
	case "get", "delete":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("usage: %s <id>", cmd.Name)
		}

		cmd.ID = args[0]
	case "list", "count":
		if len(args) > 0 {
			cmd.Warning = fmt.Sprintf("%s takes no arguments; ignoring %s", cmd.Name, strings.Join(args, " "))
		}
	case "save", "load":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("usage: %s <path>", cmd.Name)
		}

		cmd.Path = args[0]
	case "serve":
		cmd.Addr = defaultAddr
		if len(args) > 0 {
			cmd.Addr = args[0]
		}
	case "help", "exit", "quit":
	default:
		return Command{}, fmt.Errorf("unknown command %q", cmd.Name)
	}

	return cmd, nil
}

func parseVector(args []string) ([]float32, error) {
	vector := make([]float32, 0, len(args))

	for _, arg := range args {
		f, err := strconv.ParseFloat(arg, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid vector component %q", arg)
		}

		vector = append(vector, float32(f))
	}

	return vector, nil
}
