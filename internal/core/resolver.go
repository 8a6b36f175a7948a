package core

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mikey-austin/media_federation/pkg/mf"
)

// ServerLister lists known servers.
type ServerLister interface {
	Servers(ctx context.Context) ([]mf.Server, error)
}

// Resolver resolves server selectors to servers.
type Resolver struct {
	Servers ServerLister
	Config  Config
}

// ResolveServer resolves a selector (id, name or alias), falling back to the configured default.
func (r Resolver) ResolveServer(ctx context.Context, selector string) (mf.Server, error) {
	if selector == "" {
		selector = r.Config.Defaults.Server
	}

	servers, err := r.Servers.Servers(ctx)
	if err != nil {
		return mf.Server{}, ErrorForFetch("list servers", err)
	}

	if selector == "" {
		if len(servers) == 1 {
			return servers[0], nil
		}
		return mf.Server{}, &CLIError{Code: ExitUsage, Msg: "server selector required"}
	}
	return resolveSelector(selector, servers, r.Config.Aliases)
}

// ResolveOnlineServer resolves a selector and refuses offline servers.
func (r Resolver) ResolveOnlineServer(ctx context.Context, selector string) (mf.Server, error) {
	server, err := r.ResolveServer(ctx, selector)
	if err != nil {
		return mf.Server{}, err
	}
	if !server.IsOnline {
		return mf.Server{}, &CLIError{Code: ExitOffline, Msg: fmt.Sprintf("server %s is offline", server.Name)}
	}
	return server, nil
}

func resolveSelector(selector string, servers []mf.Server, aliases map[string]string) (mf.Server, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return mf.Server{}, &CLIError{Code: ExitUsage, Msg: "server selector required"}
	}

	if alias, ok := aliases[selector]; ok {
		selector = alias
	}

	for _, s := range servers {
		if s.ID == selector {
			return s, nil
		}
	}

	matches := make([]mf.Server, 0)
	for _, s := range servers {
		if strings.EqualFold(s.Name, selector) || strings.EqualFold(s.ID, selector) {
			matches = append(matches, s)
		}
	}

	if len(matches) == 1 {
		return matches[0], nil
	}
	if len(matches) == 0 {
		return mf.Server{}, &CLIError{Code: ExitNotFound, Msg: fmt.Sprintf("no server matches %q", selector)}
	}
	return mf.Server{}, &CLIError{Code: ExitUsage, Msg: fmt.Sprintf("ambiguous selector %q: %s", selector, suggestionList(matches))}
}

func suggestionList(matches []mf.Server) string {
	names := make([]string, 0, len(matches))
	for _, s := range matches {
		names = append(names, fmt.Sprintf("%s (%s)", s.Name, s.ID))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
