package versioneers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/EmundoT/rebase-helper/internal/plugins"
	"github.com/EmundoT/rebase-helper/internal/rpmver"
)

const (
	DefaultAnityaURL = "https://release-monitoring.org"
	// AnityaDistribution is the distribution whose package mapping is used
	// to find the upstream project of a package.
	AnityaDistribution = "Fedora"
)

// Anitya asks release-monitoring.org.
type Anitya struct {
	plugins.Info
	client  *Client
	baseURL string
}

func NewAnitya(client *Client, baseURL string) *Anitya {
	if baseURL == "" {
		baseURL = DefaultAnityaURL
	}
	return &Anitya{
		Info:    plugins.Info{PluginName: "anitya", Default: true},
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type anityaPackages struct {
	Items []struct {
		Name          string `json:"name"`
		Project       string `json:"project"`
		Version       string `json:"version"`
		StableVersion string `json:"stable_version"`
	} `json:"items"`
}

type anityaProjects struct {
	Items []anityaProject `json:"items"`
}

type anityaProject struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	Version        string   `json:"version"`
	StableVersions []string `json:"stable_versions"`
}

type anityaVersions struct {
	LatestVersion  string   `json:"latest_version"`
	StableVersions []string `json:"stable_versions"`
	Versions       []string `json:"versions"`
}

// Latest resolves q.Project when set (a project name or numeric id),
// otherwise the project the distribution maps q.Package to.
func (a *Anitya) Latest(ctx context.Context, q plugins.VersionQuery) (string, error) {
	if q.Project != "" {
		if id, err := strconv.Atoi(q.Project); err == nil {
			return a.byID(ctx, id)
		}
		return a.byName(ctx, q.Project)
	}

	var pkgs anityaPackages
	u := fmt.Sprintf("%s/api/v2/packages/?name=%s&distribution=%s", a.baseURL, url.QueryEscape(q.Package), url.QueryEscape(AnityaDistribution))
	found, err := a.client.getJSON(ctx, u, &pkgs)
	if err != nil || !found {
		return "", err
	}
	for _, p := range pkgs.Items {
		if p.Name != q.Package {
			continue
		}
		if p.StableVersion != "" {
			return p.StableVersion, nil
		}
		if p.Project != "" {
			return a.byName(ctx, p.Project)
		}
		return p.Version, nil
	}
	return "", nil
}

func (a *Anitya) byName(ctx context.Context, name string) (string, error) {
	var projects anityaProjects
	u := fmt.Sprintf("%s/api/v2/projects/?name=%s", a.baseURL, url.QueryEscape(name))
	found, err := a.client.getJSON(ctx, u, &projects)
	if err != nil || !found {
		return "", err
	}
	for _, p := range projects.Items {
		if p.Name != name {
			continue
		}
		if len(p.StableVersions) > 0 {
			return p.StableVersions[0], nil
		}
		if p.ID != 0 {
			return a.byID(ctx, p.ID)
		}
		return p.Version, nil
	}
	return "", nil
}

func (a *Anitya) byID(ctx context.Context, id int) (string, error) {
	var versions anityaVersions
	found, err := a.client.getJSON(ctx, fmt.Sprintf("%s/api/v2/versions/?project_id=%d", a.baseURL, id), &versions)
	if err != nil || !found {
		return "", err
	}
	if len(versions.StableVersions) > 0 {
		return versions.StableVersions[0], nil
	}
	if v := rpmver.Highest(versions.Versions); v != "" {
		return v, nil
	}
	return versions.LatestVersion, nil
}
