package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zeusync/raidbot/internal/core/bt"
	"github.com/zeusync/raidbot/internal/injector"
)

func newTreeCmd(root *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Validate and print the behavior tree",
		Long:  `Builds the behavior tree the bot would run (tree_file or the built-in strategy) and prints its structure.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := root.load()
			if err != nil {
				return err
			}
			if file != "" {
				cfg.TreeFile = file
			}
			cfg.DryRun = true
			cfg.LogLevel = "error"

			app, err := injector.InitializeApp(cfg)
			if err != nil {
				return err
			}
			printTree(cmd.OutOrStdout(), app.Tree)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Tree definition to load instead of tree_file")
	return cmd
}

func printTree(w io.Writer, tree *bt.Tree) {
	tree.Walk(func(depth int, n bt.Node) {
		fmt.Fprintf(w, "%s- [%s] %s\n", strings.Repeat("  ", depth), kind(n), n.Name())
	})
}

func kind(n bt.Node) string {
	switch node := n.(type) {
	case *bt.SequenceNode:
		return "sequence"
	case *bt.SelectorNode:
		return "selector"
	case *bt.ParallelNode:
		return fmt.Sprintf("parallel %d/%d", node.SuccessThreshold(), len(node.Children()))
	case *bt.ConditionNode:
		return "condition"
	case *bt.ActionNode:
		return "action"
	default:
		return "node"
	}
}
