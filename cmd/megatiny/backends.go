package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/megatiny/internal/backend"
)

var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "List available backends",
	Long:  `Shows every backend compiled into this binary.`,
	Args:  cobra.NoArgs,
	Run:   runBackends,
}

func runBackends(_ *cobra.Command, _ []string) {
	infos := backend.List()
	if len(infos) == 0 {
		fmt.Println("No backends available.")
		return
	}

	t := newTable("Name", "Description")
	for _, info := range infos {
		t.Row(info.Name, info.Description)
	}

	fmt.Println(titleStyle.Render("Available backends"))
	fmt.Println(t)
	fmt.Println(hintStyle.Render("Run 'megatiny --backend <name>' to play on a backend."))
}
