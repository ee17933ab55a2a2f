package schema

import (
	"testing"

	clierr "github.com/ggonzalez94/intents/internal/errors"
	"github.com/spf13/cobra"
)

func testRoot() *cobra.Command {
	root := &cobra.Command{Use: "intents"}
	root.PersistentFlags().Bool("testnet", false, "use testnet chains")
	protocols := &cobra.Command{Use: "protocols", Short: "Inspect protocols"}
	actions := &cobra.Command{Use: "actions", Aliases: []string{"verbs"}, Short: "List protocol actions"}
	actions.Flags().String("protocol", "", "protocol name")
	_ = actions.MarkFlagRequired("protocol")
	protocols.AddCommand(actions)
	root.AddCommand(protocols)
	root.AddCommand(&cobra.Command{Use: "hidden", Hidden: true})
	return root
}

func TestBuildSchema(t *testing.T) {
	s, err := Build(testRoot(), "protocols actions")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if s.Path != "intents protocols actions" {
		t.Fatalf("unexpected path: %s", s.Path)
	}
	if len(s.Flags) != 1 || s.Flags[0].Name != "protocol" || !s.Flags[0].Required {
		t.Fatalf("unexpected flags: %+v", s.Flags)
	}
	if len(s.GlobalFlags) != 0 {
		t.Fatalf("inherited flags belong to the root: %+v", s.GlobalFlags)
	}
}

func TestBuildSchemaRoot(t *testing.T) {
	s, err := Build(testRoot(), "")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(s.GlobalFlags) != 1 || s.GlobalFlags[0].Name != "testnet" {
		t.Fatalf("unexpected global flags: %+v", s.GlobalFlags)
	}
	if len(s.Subcommands) != 1 || s.Subcommands[0].Path != "intents protocols" {
		t.Fatalf("hidden commands must be skipped: %+v", s.Subcommands)
	}
}

func TestBuildSchemaAliasAndUnknown(t *testing.T) {
	if _, err := Build(testRoot(), "protocols verbs"); err != nil {
		t.Fatalf("alias lookup failed: %v", err)
	}
	_, err := Build(testRoot(), "protocols nope")
	if clierr.ExitCode(err) != 2 {
		t.Fatalf("expected usage error, got %v", err)
	}
}
