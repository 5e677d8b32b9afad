package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run dispatches a subcommand and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(stderr, "Failed to load .env: %v\n", err)
		return 1
	}

	if len(args) < 1 {
		printUsage(stderr)
		return 2
	}

	app := &app{stdin: stdin, stdout: stdout, stderr: stderr}

	var err error
	switch args[0] {
	case "encode":
		err = app.encodeCommand(args[1:])
	case "decode":
		err = app.decodeCommand(args[1:])
	case "capacity":
		err = app.capacityCommand(args[1:])
	case "scramble":
		err = app.scrambleCommand(args[1:], false)
	case "unscramble":
		err = app.scrambleCommand(args[1:], true)
	case "init":
		err = app.initCommand(args[1:])
	case "version":
		app.versionCommand()
	case "help", "-h", "--help":
		printUsage(stdout)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", args[0])
		printUsage(stderr)
		return 2
	}

	if err != nil {
		if errors.Is(err, errUsage) {
			return 2
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "Usage: stegx <command> [options]\n")
	fmt.Fprintf(w, "\nCommands:\n")
	fmt.Fprintf(w, "  encode      Hide an encrypted message in an image\n")
	fmt.Fprintf(w, "  decode      Recover a message from an image\n")
	fmt.Fprintf(w, "  capacity    Show how much an image can carry\n")
	fmt.Fprintf(w, "  scramble    Swap 10x10 pixel blocks using a password\n")
	fmt.Fprintf(w, "  unscramble  Undo scramble\n")
	fmt.Fprintf(w, "  init        Write a default stegx.yaml\n")
	fmt.Fprintf(w, "  version     Show version information\n")
	fmt.Fprintf(w, "\nRun 'stegx <command> -h' for help on a specific command.\n")
}
