package versioneers

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/EmundoT/rebase-helper/internal/plugins"
	"github.com/EmundoT/rebase-helper/internal/rpmver"
	"github.com/EmundoT/rebase-helper/internal/specfile"
)

const (
	DefaultPyPIURL     = "https://pypi.org"
	DefaultNPMURL      = "https://registry.npmjs.org"
	DefaultRubyGemsURL = "https://rubygems.org"
)

// projectName is the explicit project or the package name without its
// language prefix.
func projectName(q plugins.VersionQuery) string {
	if q.Project != "" {
		return q.Project
	}
	return specfile.UpstreamName(q.Package)
}

// PyPI asks the Python Package Index.
type PyPI struct {
	plugins.Info
	client  *Client
	baseURL string
}

func NewPyPI(client *Client, baseURL string) *PyPI {
	if baseURL == "" {
		baseURL = DefaultPyPIURL
	}
	return &PyPI{
		Info:    plugins.Info{PluginName: "pypi", Cats: []string{"python"}, Default: true},
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (p *PyPI) Latest(ctx context.Context, q plugins.VersionQuery) (string, error) {
	var doc struct {
		Info struct {
			Version string `json:"version"`
		} `json:"info"`
		Releases map[string][]struct {
			Yanked bool `json:"yanked"`
		} `json:"releases"`
	}
	found, err := p.client.getJSON(ctx, fmt.Sprintf("%s/pypi/%s/json", p.baseURL, url.PathEscape(projectName(q))), &doc)
	if err != nil || !found {
		return "", err
	}
	if doc.Info.Version != "" {
		return doc.Info.Version, nil
	}
	var versions []string
	for v, files := range doc.Releases {
		if len(files) > 0 && !files[0].Yanked {
			versions = append(versions, v)
		}
	}
	return rpmver.Highest(versions), nil
}

// NPM asks the npm registry for the "latest" dist-tag.
type NPM struct {
	plugins.Info
	client  *Client
	baseURL string
}

func NewNPM(client *Client, baseURL string) *NPM {
	if baseURL == "" {
		baseURL = DefaultNPMURL
	}
	return &NPM{
		Info:    plugins.Info{PluginName: "npmjs", Cats: []string{"nodejs"}, Default: true},
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (n *NPM) Latest(ctx context.Context, q plugins.VersionQuery) (string, error) {
	var doc struct {
		Version string `json:"version"`
	}
	// scoped names keep their "@" but escape the "/"
	name := strings.ReplaceAll(projectName(q), "/", "%2F")
	found, err := n.client.getJSON(ctx, fmt.Sprintf("%s/%s/latest", n.baseURL, name), &doc)
	if err != nil || !found {
		return "", err
	}
	return doc.Version, nil
}

// RubyGems asks rubygems.org.
type RubyGems struct {
	plugins.Info
	client  *Client
	baseURL string
}

func NewRubyGems(client *Client, baseURL string) *RubyGems {
	if baseURL == "" {
		baseURL = DefaultRubyGemsURL
	}
	return &RubyGems{
		Info:    plugins.Info{PluginName: "rubygems", Cats: []string{"ruby"}, Default: true},
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (r *RubyGems) Latest(ctx context.Context, q plugins.VersionQuery) (string, error) {
	var doc struct {
		Version string `json:"version"`
	}
	found, err := r.client.getJSON(ctx, fmt.Sprintf("%s/api/v1/gems/%s.json", r.baseURL, url.PathEscape(projectName(q))), &doc)
	if err != nil || !found {
		return "", err
	}
	return doc.Version, nil
}
