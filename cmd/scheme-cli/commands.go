package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"kisan-scheme-workers/internal/common/logger"
	"kisan-scheme-workers/internal/common/validation"
	"kisan-scheme-workers/internal/scheme"
	"kisan-scheme-workers/pkg/registry"

	"github.com/spf13/cobra"
)

type cliOptions struct {
	seed     int64
	logLevel string
	log      logger.Logger
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:          "scheme-cli",
		Short:        "Offline farmer scheme eligibility engine",
		SilenceUsage: true,
	}
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		opts.log = logger.NewStructured(opts.logLevel, "console")
	}
	root.PersistentFlags().Int64Var(&opts.seed, "seed", 0, "random seed for catalog generation (0 = unseeded)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(
		newAnalyzeCmd(opts),
		newCatalogCmd(opts),
		newReadinessCmd(),
		newStatesCmd(),
		newRegistryCmd(),
	)
	return root
}

func newAnalyzeCmd(opts *cliOptions) *cobra.Command {
	var profilePath string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Rank the schemes a farmer profile qualifies for",
		Long:  `Reads a farmer profile as JSON ("-" for stdin), generates a catalog for its state and prints the ranked eligible schemes.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, profilePath)
			if err != nil {
				return err
			}
			profile, err := decodeProfile(raw)
			if err != nil {
				return err
			}
			if !scheme.IsSupportedState(profile.Location.State) {
				opts.log.Warn("state has no regional multiplier, using 1.0", map[string]interface{}{
					"state": profile.Location.State,
				})
			}

			engine := scheme.NewEngine(scheme.NewSeededSource(opts.seed))
			return writeJSON(cmd.OutOrStdout(), engine.AnalyzeEligibility(*profile))
		},
	}
	cmd.Flags().StringVarP(&profilePath, "profile", "p", "", "path to the farmer profile JSON")
	_ = cmd.MarkFlagRequired("profile")
	return cmd
}

func newCatalogCmd(opts *cliOptions) *cobra.Command {
	var state string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Generate the candidate scheme catalog for a state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state = strings.TrimSpace(state)
			if state == "" {
				return fmt.Errorf("--state must not be blank")
			}
			if !scheme.IsSupportedState(state) {
				opts.log.Warn("state has no regional multiplier, using 1.0", map[string]interface{}{
					"state": state,
				})
			}
			engine := scheme.NewEngine(scheme.NewSeededSource(opts.seed))
			return writeJSON(cmd.OutOrStdout(), engine.GenerateSchemesForRegion(state))
		},
	}
	cmd.Flags().StringVarP(&state, "state", "s", "", "state or union territory name")
	_ = cmd.MarkFlagRequired("state")
	return cmd
}

func newReadinessCmd() *cobra.Command {
	var docs []string

	cmd := &cobra.Command{
		Use:   "readiness",
		Short: "Check which required application documents are missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), scheme.CheckDocumentReadiness(docs))
		},
	}
	cmd.Flags().StringArrayVarP(&docs, "doc", "d", nil, "a document the farmer already has (repeatable)")
	return cmd
}

type stateInfo struct {
	State              string  `json:"state"`
	RegionalMultiplier float64 `json:"regionalMultiplier"`
}

func newStatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "states",
		Short: "List supported states with their subsidy multipliers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			states := scheme.SupportedStates()
			out := make([]stateInfo, 0, len(states))
			for _, s := range states {
				out = append(out, stateInfo{State: s, RegionalMultiplier: scheme.RegionalMultiplier(s)})
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
}

func newRegistryCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Validate the worker activity registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(path)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := reg.Validate(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d activities.\n", len(reg.Activities))
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "configs/activity-registry.json", "path to the registry file")
	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	return raw, nil
}

// decodeProfile checks raw against the profile schema before decoding it.
func decodeProfile(raw []byte) (*scheme.FarmerProfile, error) {
	v, err := validation.ForSchema(scheme.FarmerProfileSchema)
	if err != nil {
		return nil, err
	}
	result, err := v.ValidateJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	if !result.Valid {
		return nil, fmt.Errorf("invalid profile: %s", strings.Join(result.GetErrorMessages(), "; "))
	}

	var profile scheme.FarmerProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	profile.Location.State = strings.TrimSpace(profile.Location.State)
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}
	return &profile, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
