package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/banshee-data/spellbook/internal/version"
)

var (
	dbPath     = flag.String("db", "spellbook.db", "Path to the SQLite database")
	configPath = flag.String("config", "", "Learner config JSON (defaults apply when empty)")
)

func main() {
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	command := flag.Arg(0)
	args := flag.Args()[1:]
	a := &app{dbPath: *dbPath, configPath: *configPath, out: os.Stdout}

	var err error
	switch command {
	case "migrate":
		err = a.migrate(args)
	case "import":
		err = a.importSpell(args)
	case "list":
		err = a.list(args)
	case "delete":
		err = a.deleteSpell(args)
	case "train":
		err = a.train(args)
	case "recognize":
		err = a.recognize(args)
	case "xor":
		err = a.xor(args)
	case "version":
		fmt.Println(version.String())
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("%s: %v", command, err)
	}
}

func printUsage() {
	fmt.Println(`spellbook - gesture spell trainer and recognizer

Usage: spellbook [-db path] [-config file] <command> [options]

Commands:
  migrate <up|down|version>   Manage the database schema
  import -name <spell> [-mirror x|y|z] [-normalize] <gesture.json>...
                              Store a spell and its example gestures
  list [-density n]           List stored spells, their preview size and
                              trained networks
  delete <spell-id>           Remove a spell and its gestures
  train [-plot file] [-html file]
                              Train a network per hand count and store it
  recognize <gesture.json>... Classify gestures with the stored networks
  xor [-repeats n] [-seed n]  Benchmark the trainer on XOR
  version                     Show version information
  help                        Show this help message

A gesture file holds one gesture, {"points": [[[x,y,z], ...], ...]} with one
trail per hand, or a JSON array of such gestures.`)
}
