// Package language defines the closed set of languages the playground
// supports and how each maps onto the execution provider.
//
// The table is the single source of truth for everything language-specific:
// the editor's syntax mode, the provider's language identifier and version
// index, the file extension used for generated names and downloads, and the
// starter template a new file is seeded with. It is package-level constant
// data — never mutated after init — and Validate() is called at startup so a
// malformed entry fails the process immediately rather than a user request.
package language

import "fmt"

// DefaultTag is the language a fresh session starts with.
const DefaultTag = "python3"

// Config describes one supported language.
type Config struct {
	// Mode is the editor syntax-highlighting mode (CodeMirror mode name).
	Mode string
	// ProviderLang is the identifier the execution provider expects.
	ProviderLang string
	// VersionIndex selects the provider's runtime version. The provider
	// takes it as a string, not a number.
	VersionIndex string
	// Extension is the file extension, dot included.
	Extension string
	// Template is the starter source a new file is seeded with.
	Template string
}

var table = map[string]Config{
	"python3": {
		Mode:         "python",
		ProviderLang: "python3",
		VersionIndex: "3",
		Extension:    ".py",
		Template:     `print("Hello, World!")`,
	},
	"cpp17": {
		Mode:         "text/x-c++src",
		ProviderLang: "cpp17",
		VersionIndex: "0",
		Extension:    ".cpp",
		Template: `#include <iostream>
using namespace std;

int main() {
    cout << "Hello, World!" << endl;
    return 0;
}`,
	},
	"java": {
		Mode:         "text/x-java",
		ProviderLang: "java",
		VersionIndex: "4",
		Extension:    ".java",
		Template: `public class Main {
    public static void main(String[] args) {
        System.out.println("Hello, World!");
    }
}`,
	},
	"nodejs": {
		Mode:         "javascript",
		ProviderLang: "nodejs",
		VersionIndex: "3",
		Extension:    ".js",
		Template:     `console.log("Hello, World!");`,
	},
}

// Lookup returns the config for a language tag.
// The bool is false for tags outside the supported set.
func Lookup(tag string) (Config, bool) {
	cfg, ok := table[tag]
	return cfg, ok
}

// Supported reports whether the tag is in the table.
func Supported(tag string) bool {
	_, ok := table[tag]
	return ok
}

// Tags returns every supported language tag. Order is not specified.
func Tags() []string {
	tags := make([]string, 0, len(table))
	for tag := range table {
		tags = append(tags, tag)
	}
	return tags
}

// Validate checks the table for malformed entries. Called once at startup;
// any error here is a programming mistake, not a runtime condition.
func Validate() error {
	if _, ok := table[DefaultTag]; !ok {
		return fmt.Errorf("language: default tag %q missing from table", DefaultTag)
	}
	for tag, cfg := range table {
		if cfg.Mode == "" || cfg.ProviderLang == "" || cfg.VersionIndex == "" {
			return fmt.Errorf("language: %q has an empty provider mapping", tag)
		}
		if len(cfg.Extension) < 2 || cfg.Extension[0] != '.' {
			return fmt.Errorf("language: %q has invalid extension %q", tag, cfg.Extension)
		}
		if cfg.Template == "" {
			return fmt.Errorf("language: %q has no starter template", tag)
		}
	}
	return nil
}
