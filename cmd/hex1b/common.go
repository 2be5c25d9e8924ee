package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hex1b/hex1b/internal/config"
	"github.com/hex1b/hex1b/internal/session"
)

func openRegistry() (*session.Registry, error) {
	reg, err := session.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("open session registry: %w", err)
	}
	return reg, nil
}

func loadConfig() *config.Config {
	cfg, err := config.LoadConfig()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// resolveID finds the registered session whose ID has the given prefix,
// erroring if zero or more than one match (ids are process-id-based
// prefixes per the CLI contract, so a short prefix is usually enough).
func resolveID(reg *session.Registry, prefix string) (session.Info, error) {
	if info, err := reg.Get(prefix); err == nil {
		return info, nil
	}
	all, err := reg.List()
	if err != nil {
		return session.Info{}, err
	}
	var matches []session.Info
	for _, info := range all {
		if len(info.ID) >= len(prefix) && info.ID[:len(prefix)] == prefix {
			matches = append(matches, info)
		}
	}
	switch len(matches) {
	case 0:
		return session.Info{}, newUserError("no session matches id %q", prefix)
	case 1:
		return matches[0], nil
	default:
		return session.Info{}, newUserError("id %q is ambiguous across %d sessions", prefix, len(matches))
	}
}

func printResult(asJSON bool, v any, text func()) error {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text()
	return nil
}
