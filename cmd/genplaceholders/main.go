package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"chosenoffset.com/gridcaster/internal/game"
	"chosenoffset.com/gridcaster/internal/placeholders"
)

func main() {
	dir := flag.String("out", "assets", "Directory to write the placeholder art into")
	size := flag.Int("demo-size", 16, "Side length of the demo map written next to the art")
	flag.Parse()

	fmt.Println("gridcaster Placeholder Art Generator")
	fmt.Println("====================================")
	fmt.Println()

	if err := generate(*dir, *size); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Printf("Done! Run: gridcaster -map %s\n", filepath.Join(*dir, "demo.json"))
}

// generate writes the art plus a demo map that loads it through the atlases.
func generate(dir string, size int) error {
	if err := placeholders.GenerateAndSave(dir); err != nil {
		return err
	}

	data, err := game.DemoMap(size)
	if err != nil {
		return err
	}
	data.Atlases = []string{"walls.json", "sprites.json"}
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode demo map: %w", err)
	}
	path := filepath.Join(dir, "demo.json")
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return fmt.Errorf("failed to write demo map: %w", err)
	}
	fmt.Printf("✓ Generated %s (%dx%d)\n", path, size, size)
	return nil
}
