package checkers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	cdx "github.com/CycloneDX/cyclonedx-go"
	"github.com/google/uuid"

	"github.com/EmundoT/rebase-helper/internal/plugins"
	"github.com/EmundoT/rebase-helper/internal/purl"
	"github.com/EmundoT/rebase-helper/internal/sbom"
	"github.com/EmundoT/rebase-helper/internal/types"
	"github.com/EmundoT/rebase-helper/internal/version"
)

// SBOMDiff writes a CycloneDX bill of materials for each build and reports
// the components that appeared, disappeared or changed version.
type SBOMDiff struct {
	plugins.Info
	runner plugins.Runner
}

func NewSBOMDiff(runner plugins.Runner) *SBOMDiff {
	return &SBOMDiff{
		Info:   plugins.Info{PluginName: "sbomdiff", Tools: []string{"rpm"}},
		runner: runner,
	}
}

func (c *SBOMDiff) Run(ctx context.Context, req plugins.CheckRequest) (*types.CheckerResult, error) {
	oldHeaders, err := headersOf(ctx, c.runner, req.Old.Packages)
	if err != nil {
		return nil, err
	}
	newHeaders, err := headersOf(ctx, c.runner, req.New.Packages)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(req.ResultsDir, 0755); err != nil {
		return nil, err
	}

	res := &types.CheckerResult{Name: c.Name()}
	for _, side := range []struct {
		name    string
		build   *types.BuildRecord
		headers map[string]header
		source  string
	}{
		{"old", req.Old, oldHeaders, ""},
		{"new", req.New, newHeaders, req.SourceURL},
	} {
		bom := buildBOM(req.Package, side.name, side.build, side.headers, side.source)
		path := filepath.Join(req.ResultsDir, side.name+".cdx.json")
		if err := writeBOM(path, bom); err != nil {
			return nil, err
		}
		res.Artifacts = append(res.Artifacts, path)
	}

	var added, removed []string
	updated := make(map[string][]string)
	for _, name := range unionNames(namesOf(oldHeaders), namesOf(newHeaders)) {
		o, inOld := oldHeaders[name]
		n, inNew := newHeaders[name]
		switch {
		case !inOld:
			added = append(added, name)
		case !inNew:
			removed = append(removed, name)
		case o.evr() != n.evr():
			updated[name] = []string{o.evr(), n.evr()}
		}
	}
	res.Data = map[string]any{"updated": updated}
	if len(added) > 0 {
		res.Data["added"] = added
	}
	if len(removed) > 0 {
		res.Data["removed"] = removed
	}
	return res, nil
}

func (c *SBOMDiff) Format(res *types.CheckerResult) []string {
	var lines []string
	for _, name := range stringsOf(res.Data["added"]) {
		lines = append(lines, "New component: "+name)
	}
	for _, name := range stringsOf(res.Data["removed"]) {
		lines = append(lines, "Removed component: "+name)
	}
	updated := listsOf(res.Data["updated"])
	for _, name := range sortedKeys(updated) {
		if pair := updated[name]; len(pair) == 2 {
			lines = append(lines, fmt.Sprintf("Updated component %s: %s -> %s", name, pair[0], pair[1]))
		}
	}
	if len(res.Artifacts) > 0 {
		lines = append(lines, "Bills of materials: "+strings.Join(res.Artifacts, ", "))
	}
	return lines
}

func namesOf(headers map[string]header) map[string]string {
	out := make(map[string]string, len(headers))
	for name, h := range headers {
		out[name] = h.File
	}
	return out
}

func buildBOM(pkg, side string, build *types.BuildRecord, headers map[string]header, sourceURL string) *cdx.BOM {
	bom := cdx.NewBOM()
	bom.SerialNumber = "urn:uuid:" + uuid.New().String()
	bom.Version = 1

	subject := &cdx.Component{
		Type:    cdx.ComponentTypeApplication,
		BOMRef:  pkg + "@" + build.Version,
		Name:    pkg,
		Version: build.Version,
	}
	if p := purl.FromSourceURL(sourceURL, build.Version); p != nil {
		subject.PackageURL = p.String()
		subject.ExternalReferences = &[]cdx.ExternalReference{{Type: cdx.ERTypeDistribution, URL: sourceURL}}
	}
	if s := sbom.ExtractSupplier(sourceURL); s != nil {
		subject.Supplier = &cdx.OrganizationalEntity{Name: s.Name, URL: &[]string{s.URL}}
	}
	bom.Metadata = &cdx.Metadata{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Tools: &cdx.ToolsChoice{
			Tools: &[]cdx.Tool{{Vendor: "rebase-helper", Name: "rebase-helper", Version: version.GetVersion()}},
		},
		Component: subject,
	}

	components := make([]cdx.Component, 0, len(headers))
	for _, name := range sortedKeys(headers) {
		h := headers[name]
		id, ok := sbom.IdentityOf(h.File)
		if !ok {
			continue
		}
		component := cdx.Component{
			Type:    cdx.ComponentTypeLibrary,
			BOMRef:  sbom.GenerateBOMRef(id),
			Name:    h.Name,
			Version: h.evr(),
		}
		if p := purl.FromRPM(h.File, ""); p != nil {
			component.PackageURL = p.String()
		}
		if h.License != "" {
			component.Licenses = &cdx.Licenses{{Expression: h.License}}
		}
		properties := []cdx.Property{{Name: "rebase-helper:arch", Value: h.Arch}}
		if comment := sbom.MetadataComment(side, build.Builder, baseName(build.SRPM)); comment != "" {
			properties = append(properties, cdx.Property{Name: "rebase-helper:build", Value: comment})
		}
		component.Properties = &properties
		components = append(components, component)
	}
	bom.Components = &components
	return bom
}

func writeBOM(path string, bom *cdx.BOM) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	encoder := cdx.NewBOMEncoder(f, cdx.BOMFileFormatJSON)
	encoder.SetPretty(true)
	if err := encoder.Encode(bom); err != nil {
		f.Close()
		return fmt.Errorf("encode CycloneDX: %w", err)
	}
	return f.Close()
}
