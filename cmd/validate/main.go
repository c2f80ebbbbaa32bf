package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/nightdial/sunrise-engine/pkg/command"
)

// Lints the command catalog: every canonical phrase and every alias
// must survive normalization unchanged and parse back to its own
// action. Run it after editing the catalog.
func main() {
	validator := &CatalogValidator{}
	validator.validate()

	if len(validator.errors) > 0 {
		fmt.Fprintf(os.Stderr, "Catalog validation failed with %d error(s):\n", len(validator.errors))
		for _, e := range validator.errors {
			fmt.Fprintf(os.Stderr, "  - %s\n", e)
		}
		os.Exit(1)
	}

	printCatalog()
	fmt.Println("Command catalog is valid!")
}

type CatalogValidator struct {
	errors []string
}

func (v *CatalogValidator) addError(format string, args ...interface{}) {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
}

func (v *CatalogValidator) validate() {
	for _, entry := range command.Catalog() {
		if entry.Category == "" {
			v.addError("action %q has no category", entry.Action)
		}
		if entry.Description == "" {
			v.addError("action %q has no description", entry.Action)
		}

		v.checkPhrase(entry.Action, string(entry.Action), false)
		for _, alias := range entry.Aliases {
			v.checkPhrase(entry.Action, alias, true)
		}
	}
}

// checkPhrase verifies a spoken phrase is stored in normalized form and
// that the parser resolves it back to the action that owns it.
func (v *CatalogValidator) checkPhrase(action command.Action, phrase string, isAlias bool) {
	norm := command.Normalize(phrase)
	joined := strings.Join(command.Tokenize(norm), " ")
	if joined == "" {
		v.addError("action %q: phrase %q is all stopwords and can never match", action, phrase)
		return
	}
	if joined != phrase {
		v.addError("action %q: phrase %q is not stored normalized (want %q)", action, phrase, joined)
		return
	}

	res := command.Parse(phrase, nil)
	if res.Err != nil {
		v.addError("action %q: phrase %q does not parse: %s", action, phrase, res.Err.Message)
		return
	}
	if res.Action != action {
		v.addError("action %q: phrase %q resolves to %q instead", action, phrase, res.Action)
		return
	}

	wantMatch := command.MatchExact
	if isAlias {
		wantMatch = command.MatchAlias
	}
	if res.MatchType != wantMatch {
		v.addError("action %q: phrase %q matched as %s, expected %s", action, phrase, res.MatchType, wantMatch)
	}
}

func printCatalog() {
	fmt.Printf("%-12s %-12s %s\n", "ACTION", "CATEGORY", "ALIASES")
	for _, entry := range command.Catalog() {
		fmt.Printf("%-12s %-12s %s\n", entry.Action, entry.Category, strings.Join(entry.Aliases, ", "))
	}
	fmt.Println()
}
