package core

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/EmundoT/rebase-helper/internal/plugins"
	"github.com/EmundoT/rebase-helper/internal/specfile"
	"github.com/EmundoT/rebase-helper/pkg/logger"
)

const (
	// AnityaPrefix marks a target naming a release-monitoring project.
	AnityaPrefix = "anitya:"
	// AnityaVersioneer answers AnityaPrefix targets.
	AnityaVersioneer = "anitya"
)

var versionRe = regexp.MustCompile(`^[0-9][0-9A-Za-z._~^+-]*$`)

// VersionResolver turns the target argument into a version. The argument
// may be a literal version or a tracker bug; without one a versioneer is asked.
type VersionResolver struct {
	versioneers []plugins.Versioneer
	tracker     TrackerClient
	log         *logger.Logger
}

// NewVersionResolver creates a resolver. versioneers are tried in order.
func NewVersionResolver(versioneers []plugins.Versioneer, tracker TrackerClient, log *logger.Logger) *VersionResolver {
	if log == nil {
		log = logger.Discard()
	}
	return &VersionResolver{versioneers: versioneers, tracker: tracker, log: log.WithComponent("target")}
}

// Resolve returns the version target stands for.
func (r *VersionResolver) Resolve(ctx context.Context, target string, spec *specfile.Spec) (string, error) {
	target = strings.TrimSpace(target)
	q := plugins.VersionQuery{Package: spec.Name()}
	if srcs := spec.Sources(); len(srcs) > 0 && srcs[0].IsRemote() {
		q.SourceURL = srcs[0].Expanded
	}

	switch {
	case target == "":
		if len(r.versioneers) == 0 {
			return "", NewConfigurationError(nil, "pass a version, a tracker id or --versioneer", "no target version given")
		}
		return r.latest(ctx, q, "")

	case strings.HasPrefix(target, AnityaPrefix):
		q.Project = strings.TrimPrefix(target, AnityaPrefix)
		if q.Project == "" {
			return "", NewConfigurationError(nil, "use anitya:<project>", "empty project in %q", target)
		}
		return r.latest(ctx, q, AnityaVersioneer)
	}

	if id, ok := ParseTrackerID(target); ok {
		if r.tracker == nil {
			return "", NewConfigurationError(nil, "", "tracker identifiers are not supported here")
		}
		pkg, v, err := r.tracker.TrackedVersion(ctx, id)
		if err != nil {
			return "", NewAcquisitionError(target, err)
		}
		if pkg != spec.Name() {
			r.log.Warn("tracker bug names another package", "bug", id, "package", pkg)
		}
		r.log.Info("target version from tracker", "bug", id, "version", v)
		return v, nil
	}

	if versionRe.MatchString(target) {
		return target, nil
	}
	return "", NewConfigurationError(nil, "pass a version such as 1.2.3, anitya:<project> or rhbz#<id>", "cannot interpret target %q", target)
}

// latest asks the versioneers in order, or only the one called only when
// it is set.
func (r *VersionResolver) latest(ctx context.Context, q plugins.VersionQuery, only string) (string, error) {
	var errs []error
	asked := 0
	for _, v := range r.versioneers {
		if only != "" && v.Name() != only {
			continue
		}
		asked++
		version, err := v.Latest(ctx, q)
		if err != nil {
			if IsInterrupt(err) {
				return "", err
			}
			r.log.WithError(err).Warn("versioneer failed", "versioneer", v.Name())
			errs = append(errs, fmt.Errorf("%s: %w", v.Name(), err))
			continue
		}
		if version != "" {
			r.log.Info("latest upstream version", "versioneer", v.Name(), "version", version)
			return version, nil
		}
	}
	if only != "" && asked == 0 {
		return "", NewConfigurationError(nil, "enable the "+only+" versioneer", "no %s versioneer to resolve %s", only, q.Project)
	}
	what := q.Package
	if q.Project != "" {
		what = q.Project
	}
	return "", NewAcquisitionError("latest version of "+what, errors.Join(append(errs, errors.New("no versioneer knows the project"))...))
}
