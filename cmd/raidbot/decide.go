package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zeusync/raidbot/internal/core/decision"
	"github.com/zeusync/raidbot/internal/core/world"
)

type decideOutput struct {
	Decision    decision.Decision  `json:"decision"`
	State       decision.GameState `json:"state"`
	Fingerprint string             `json:"fingerprint"`
	ThreatLevel *float64           `json:"threat_level,omitempty"`
	Engage      *bool              `json:"engage,omitempty"`
	FleeTo      string             `json:"flee_to,omitempty"`
}

func newDecideCmd(root *rootOptions) *cobra.Command {
	var pretty bool
	cmd := &cobra.Command{
		Use:   "decide [perception.json]",
		Short: "Print the decision for a single perception",
		Long:  `Reads one perception object from the given file or stdin and prints the decision the engine makes for it, without acting.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := root.load()
			if err != nil {
				return err
			}

			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			out, err := decide(in, cfg.ConfidenceThreshold)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			if pretty {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(out)
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the output")
	return cmd
}

func decide(r io.Reader, minConfidence float64) (decideOutput, error) {
	var payload map[string]any
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return decideOutput{}, fmt.Errorf("read perception: %w", err)
	}
	p, err := world.DecodePerception(payload)
	if err != nil {
		return decideOutput{}, err
	}

	engine := decision.NewEngine()
	engine.UpdateGameState(p.FilterConfidence(minConfidence))
	d := engine.MakeDecision()

	out := decideOutput{
		Decision:    d,
		State:       decision.StateForAction(d.Action),
		Fingerprint: fmt.Sprintf("%016x", d.Fingerprint()),
	}
	if threat := d.Context.Threat; threat != nil {
		level := engine.EvaluateThreatLevel(*threat)
		engage := engine.ShouldEngageCombat(*threat)
		out.ThreatLevel = &level
		out.Engage = &engage
		out.FleeTo = engine.CalculateFleeDirection(*threat)
	}
	return out, nil
}
