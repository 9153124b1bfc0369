package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/EmundoT/rebase-helper/internal/plugins"
	"github.com/EmundoT/rebase-helper/internal/rpmver"
	"github.com/EmundoT/rebase-helper/internal/types"
	"github.com/EmundoT/rebase-helper/pkg/logger"
)

// RemoteHub fetches finished builds from a remote build system instead of
// building them locally.
//
//go:generate mockgen -source=remote_hub.go -destination=remote_hub_mock_test.go -package=core
type RemoteHub interface {
	// LatestBuild returns the NVR of the newest completed build of pkg at
	// version.
	LatestBuild(ctx context.Context, pkg, version string) (string, error)
	// Download stores the packages of nvr in dest.
	Download(ctx context.Context, nvr, dest string) (*types.BuildRecord, error)
}

// DefaultHubArches are downloaded for every build; missing binary
// architectures are tolerated.
var DefaultHubArches = []string{"src", "noarch", "x86_64"}

// KojiHub talks to a Koji hub through the koji CLI.
type KojiHub struct {
	profile string
	arches  []string
	runner  plugins.Runner
	log     *logger.Logger
}

// NewKojiHub creates a hub client for the koji CLI profile.
func NewKojiHub(profile string, runner plugins.Runner, log *logger.Logger) *KojiHub {
	if runner == nil {
		runner = plugins.ExecRunner{}
	}
	if log == nil {
		log = logger.Discard()
	}
	return &KojiHub{profile: profile, arches: DefaultHubArches, runner: runner, log: log.WithComponent("koji")}
}

var _ RemoteHub = (*KojiHub)(nil)

func (k *KojiHub) args(args ...string) []string {
	if k.profile == "" {
		return args
	}
	return append([]string{"-p", k.profile}, args...)
}

// LatestBuild lists the completed builds of pkg and picks the highest
// release of version.
func (k *KojiHub) LatestBuild(ctx context.Context, pkg, version string) (string, error) {
	out, err := k.runner.Run(ctx, "", nil, "koji", k.args("list-builds", "--package="+pkg, "--state=COMPLETE", "--quiet")...)
	if err != nil {
		return "", NewAcquisitionError("koji builds of "+pkg, err)
	}

	prefix := pkg + "-" + version + "-"
	var releases []string
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 || !strings.HasPrefix(fields[0], prefix) {
			continue
		}
		releases = append(releases, strings.TrimPrefix(fields[0], prefix))
	}
	if len(releases) == 0 {
		return "", NewAcquisitionError("koji build of "+prefix+"*", fmt.Errorf("no completed build found"))
	}
	sort.Slice(releases, func(i, j int) bool {
		return rpmver.CompareEVR(version+"-"+releases[i], version+"-"+releases[j]) > 0
	})
	nvr := prefix + releases[0]
	k.log.Info("found remote build", "nvr", nvr)
	return nvr, nil
}

// Download fetches every architecture of nvr in parallel. The source
// package is required; binary architectures the build lacks are skipped.
func (k *KojiHub) Download(ctx context.Context, nvr, dest string) (*types.BuildRecord, error) {
	if err := os.MkdirAll(dest, 0755); err != nil {
		return nil, err
	}

	var (
		mu     sync.Mutex
		failed []string
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, arch := range k.arches {
		g.Go(func() error {
			_, err := k.runner.Run(gctx, dest, nil, "koji", k.args("download-build", "--arch="+arch, nvr)...)
			if err == nil {
				return nil
			}
			if arch == "src" {
				return NewAcquisitionError("source package of "+nvr, err)
			}
			k.log.Debug("architecture not downloaded", "nvr", nvr, "arch", arch, "error", err)
			mu.Lock()
			failed = append(failed, arch)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rpms, err := FindFiles(dest, "*.rpm")
	if err != nil {
		return nil, err
	}
	rec := &types.BuildRecord{Builder: "koji", ErrorKind: types.BuildErrorNone, FromHub: true}
	for _, p := range rpms {
		if strings.HasSuffix(p, ".src.rpm") {
			rec.SRPM = p
			continue
		}
		rec.Packages = append(rec.Packages, p)
	}
	if len(rec.Packages) == 0 {
		return nil, NewAcquisitionError("binary packages of "+nvr, fmt.Errorf("none of %s downloaded", strings.Join(failed, ", ")))
	}
	k.log.Info("downloaded remote build", "nvr", nvr, "packages", len(rec.Packages), "dir", filepath.Base(dest))
	return rec, nil
}
