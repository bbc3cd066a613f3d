// Command levelcode converts between YAML level files and the compact level
// code used in shareable URLs.
//
//	levelcode -encode content/levels/tower.yaml
//	levelcode -decode <code> [-id tower -name "The Tower"]
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/giftrun/internal/game/level"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type levelDoc struct {
	Level levelBody `yaml:"level"`
}

type levelBody struct {
	ID   string   `yaml:"id,omitempty"`
	Name string   `yaml:"name,omitempty"`
	Rows []string `yaml:"rows"`
}

// run executes the command and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("levelcode", flag.ContinueOnError)
	fs.SetOutput(stderr)
	encodePath := fs.String("encode", "", "YAML level file to encode")
	decodeCode := fs.String("decode", "", "level code to decode")
	id := fs.String("id", "", "level id written with -decode")
	name := fs.String("name", "", "level name written with -decode")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var err error
	switch {
	case *encodePath != "" && *decodeCode == "":
		err = encode(*encodePath, stdout)
	case *decodeCode != "" && *encodePath == "":
		err = decode(*decodeCode, *id, *name, stdout)
	default:
		fmt.Fprintln(stderr, "usage: levelcode -encode <file.yaml> | -decode <code> [-id <id>] [-name <name>]")
		return 2
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func encode(path string, out io.Writer) error {
	lvl, err := level.LoadLevelFromFile(path)
	if err != nil {
		return err
	}
	code, err := level.Encode(lvl.Grid)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", lvl.ID, err)
	}
	_, err = fmt.Fprintln(out, code)
	return err
}

func decode(code, id, name string, out io.Writer) error {
	g, err := level.Decode(code)
	if err != nil {
		return err
	}
	if n := len(g.Find(level.Human)); n != 1 {
		return errors.New("decoded board has no single avatar tile")
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(levelDoc{Level: levelBody{ID: id, Name: name, Rows: g.Rows()}}); err != nil {
		return fmt.Errorf("writing level YAML: %w", err)
	}
	return enc.Close()
}
