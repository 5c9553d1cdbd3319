package main

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// envSection groups flags under one heading of .env.example.
type envSection struct {
	title string
	flags []string

	// commented flags are written disabled, usually because they hold secrets.
	commented map[string]string
}

var envSections = []envSection{
	{
		title: "Quran Sources",
		flags: []string{
			"alquran-url", "arabic-edition", "translation-edition", "transliteration-edition",
			"qurancom-url", "qurancom-translation-id", "qurancom-token-url",
		},
		commented: map[string]string{
			"qurancom-client-id":     "your-client-id",
			"qurancom-client-secret": "your-client-secret",
		},
	},
	{
		title: "Tafsir and Hadith",
		flags: []string{"tafsir-url", "tafsir-edition", "hadith-url", "hadith-language"},
	},
	{
		title: "Prayer Times and Geocoding",
		flags: []string{"aladhan-url", "calculation-method", "nominatim-url"},
	},
	{
		title: "Provider Behaviour",
		flags: []string{"provider-timeout-secs", "catalog-ttl-mins"},
	},
	{
		title: "Recitation Audio",
		flags: []string{"audio-url-template", "default-reciter"},
	},
	{
		title: "Bookmarks and Settings",
		flags: []string{"store-path", "store-index-capacity", "owner-id"},
	},
	{
		title: "Assistant",
		flags: []string{"assistant-provider", "assistant-limit-per-minute"},
		commented: map[string]string{
			"assistant-api-key":  "sk-...",
			"assistant-model":    "claude-3-5-haiku-latest",
			"assistant-base-url": "https://api.anthropic.com",
		},
	},
	{
		title: "Localization",
		flags: []string{"language"},
	},
	{
		title: "HTTP Server",
		flags: []string{"server-host", "server-port"},
	},
	{
		title: "Logging",
		flags: []string{"log-level", "log-format"},
	},
}

func generateEnvExample(cmd *cobra.Command) error {
	fmt.Println("Generating .env.example file from current configuration...")

	content := generateEnvExampleContent(cmd)

	if err := os.WriteFile(".env.example", []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write .env.example: %w", err)
	}

	fmt.Println("Successfully generated .env.example file")
	return nil
}

func generateEnvExampleContent(cmd *cobra.Command) string {
	var content strings.Builder

	content.WriteString("# =============================================================================\n")
	content.WriteString("# Nur Configuration\n")
	content.WriteString("# =============================================================================\n")
	content.WriteString("#\n")
	content.WriteString("# Copy this file to .env and update with your values\n")
	content.WriteString("# All environment variables have CLI flag equivalents (use --help to see them)\n")
	content.WriteString("#\n")
	fmt.Fprintf(&content, "# Format: %s_<SETTING>=value\n", envPrefix)
	content.WriteString("# CLI equivalent: --<setting>\n")
	content.WriteString("#\n\n")

	for _, section := range envSections {
		writeEnvSection(&content, cmd, section)
	}

	return content.String()
}

func writeEnvSection(content *strings.Builder, cmd *cobra.Command, section envSection) {
	content.WriteString("# -----------------------------------------------------------------------------\n")
	fmt.Fprintf(content, "# %s\n", section.title)
	content.WriteString("# -----------------------------------------------------------------------------\n")

	for _, name := range section.flags {
		fmt.Fprintf(content, "%s=%s    # %s\n",
			flagToEnvVar(name), getDefaultValueString(cmd, name), flagUsage(cmd, name))
	}
	for _, name := range slices.Sorted(maps.Keys(section.commented)) {
		fmt.Fprintf(content, "# %s=%s    # %s\n",
			flagToEnvVar(name), section.commented[name], flagUsage(cmd, name))
	}
	content.WriteString("\n")
}

func flagToEnvVar(flagName string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}

func getDefaultValueString(cmd *cobra.Command, flagName string) string {
	if f := cmd.PersistentFlags().Lookup(flagName); f != nil {
		return f.DefValue
	}
	return ""
}

func flagUsage(cmd *cobra.Command, flagName string) string {
	if f := cmd.PersistentFlags().Lookup(flagName); f != nil {
		return f.Usage
	}
	return ""
}
