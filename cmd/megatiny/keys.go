package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/megatiny/internal/engine"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Show the effective key bindings",
	Long: `Shows which raw keys are bound to each engine key after loading the
configuration. Bindings are set in the keys section of the config file.`,
	Args: cobra.NoArgs,
	Run:  runKeys,
}

func runKeys(_ *cobra.Command, _ []string) {
	cfg := loadConfig()

	mapper, err := cfg.KeyMapper()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(titleStyle.Render("Key bindings"))
	fmt.Println(keyTable(mapper.Bindings()))
	fmt.Println(hintStyle.Render("Esc or Ctrl+C quits on terminal backends."))
}

// keyTable renders bindings with one row per engine key, in key order.
func keyTable(bindings []engine.Binding) string {
	codes := make(map[engine.Key][]string)
	for _, b := range bindings {
		codes[b.Key] = append(codes[b.Key], b.Code.String())
	}

	t := newTable("Key", "Bound to")
	for _, k := range engine.Keys {
		bound := codes[k]
		if len(bound) == 0 {
			t.Row(k.String(), "-")
			continue
		}
		t.Row(k.String(), strings.Join(bound, ", "))
	}
	return t.String()
}
