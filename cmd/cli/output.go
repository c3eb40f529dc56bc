package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// printJSON writes v to stdout with two-space indentation and UTF-8
// left unescaped.
func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error: encoding result: %v\n", err)
	}
}
