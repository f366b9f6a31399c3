package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/sagehealth/vocalis/pkg/insight"
	"github.com/sagehealth/vocalis/pkg/kv"
)

// dbDir is the insight store location; shared by analyze, get, list.
var dbDir string

// openInsights opens the badger-backed insight store at --db. The
// returned close function must be called before exit.
func openInsights() (*insight.Store, func() error, error) {
	if dbDir == "" {
		return nil, nil, fmt.Errorf("flag --db is required")
	}
	store, err := kv.NewBadger(kv.BadgerOptions{Dir: dbDir})
	if err != nil {
		return nil, nil, fmt.Errorf("open store %s: %w", dbDir, err)
	}
	return insight.NewStore(store, nil), store.Close, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printResult(v any) error {
	if formatOutput == "json" {
		return printJSON(v)
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}
