package checkers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spdx/tools-golang/spdx"
	"github.com/spdx/tools-golang/spdx/v2/common"
	spdx23 "github.com/spdx/tools-golang/spdx/v2/v2_3"

	"github.com/EmundoT/rebase-helper/internal/plugins"
	"github.com/EmundoT/rebase-helper/internal/purl"
	"github.com/EmundoT/rebase-helper/internal/sbom"
	"github.com/EmundoT/rebase-helper/internal/types"
	"github.com/EmundoT/rebase-helper/internal/version"
)

// LicenseDocument is the SPDX document written for the new packages.
const LicenseDocument = "licenses.spdx.json"

// LicenseCheck reports license tag changes between the builds and describes
// the new packages in an SPDX 2.3 document.
type LicenseCheck struct {
	plugins.Info
	runner plugins.Runner
}

func NewLicenseCheck(runner plugins.Runner) *LicenseCheck {
	return &LicenseCheck{
		Info:   plugins.Info{PluginName: "licensecheck", Default: true, Tools: []string{"rpm"}},
		runner: runner,
	}
}

func (c *LicenseCheck) Run(ctx context.Context, req plugins.CheckRequest) (*types.CheckerResult, error) {
	oldHeaders, err := headersOf(ctx, c.runner, req.Old.Packages)
	if err != nil {
		return nil, err
	}
	newHeaders, err := headersOf(ctx, c.runner, req.New.Packages)
	if err != nil {
		return nil, err
	}

	changes := make(map[string][]string)
	licenses := make(map[string]string, len(newHeaders))
	for name, h := range newHeaders {
		licenses[name] = h.License
		if old, ok := oldHeaders[name]; ok && old.License != h.License {
			changes[name] = []string{old.License, h.License}
		}
	}

	if err := os.MkdirAll(req.ResultsDir, 0755); err != nil {
		return nil, err
	}
	doc := licenseDocument(req, newHeaders)
	data, err := spdxJSON(doc)
	if err != nil {
		return nil, fmt.Errorf("encode SPDX: %w", err)
	}
	path := filepath.Join(req.ResultsDir, LicenseDocument)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, err
	}

	return &types.CheckerResult{
		Name:      c.Name(),
		Data:      map[string]any{"changes": changes, "licenses": licenses},
		Artifacts: []string{path},
	}, nil
}

func (c *LicenseCheck) Format(res *types.CheckerResult) []string {
	changes := listsOf(res.Data["changes"])
	if len(changes) == 0 {
		return []string{"No license changes"}
	}
	lines := make([]string, 0, len(changes))
	for _, name := range sortedKeys(changes) {
		if pair := changes[name]; len(pair) == 2 {
			lines = append(lines, fmt.Sprintf("License of %s changed: %s -> %s", name, pair[0], pair[1]))
		}
	}
	return lines
}

// headersOf queries every binary package, keyed by package name.
func headersOf(ctx context.Context, runner plugins.Runner, files []string) (map[string]header, error) {
	out := make(map[string]header)
	for name, file := range byName(files) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		h, err := queryHeader(ctx, runner, file)
		if err != nil {
			return nil, err
		}
		out[name] = h
	}
	return out, nil
}

func licenseDocument(req plugins.CheckRequest, headers map[string]header) *spdx23.Document {
	doc := &spdx23.Document{
		SPDXVersion:       spdx.Version,
		DataLicense:       spdx.DataLicense,
		SPDXIdentifier:    common.ElementID(sbom.SPDXDocumentID),
		DocumentName:      req.Package + "-" + req.New.Version,
		DocumentNamespace: sbom.BuildSPDXNamespace("", req.Package, uuid.New().String()),
		CreationInfo: &spdx23.CreationInfo{
			Created:  time.Now().UTC().Format(time.RFC3339),
			Creators: []common.Creator{{CreatorType: "Tool", Creator: "rebase-helper-" + version.GetVersion()}},
		},
	}

	for _, name := range sortedKeys(headers) {
		h := headers[name]
		id, ok := sbom.IdentityOf(h.File)
		if !ok {
			continue
		}
		spdxID := common.ElementID(sbom.GenerateSPDXID(id))
		download := h.URL
		if download == "" {
			download = "NOASSERTION"
		}
		license := h.License
		if license == "" {
			license = "NOASSERTION"
		}
		pkg := &spdx23.Package{
			PackageName:             h.Name,
			PackageSPDXIdentifier:   spdxID,
			PackageVersion:          h.evr(),
			PackageDownloadLocation: download,
			PackageLicenseDeclared:  license,
			PackageLicenseConcluded: "NOASSERTION",
			PackageCopyrightText:    "NOASSERTION",
			PackageComment:          sbom.MetadataComment("new", req.New.Builder, baseName(req.New.SRPM)),
		}
		if p := purl.FromRPM(h.File, ""); p != nil {
			pkg.PackageExternalReferences = []*spdx23.PackageExternalReference{
				{Category: common.CategoryPackageManager, RefType: "purl", Locator: p.String()},
			}
		}
		doc.Packages = append(doc.Packages, pkg)
		doc.Relationships = append(doc.Relationships, &spdx23.Relationship{
			RefA:         common.MakeDocElementID("", sbom.SPDXDocumentID),
			RefB:         common.MakeDocElementID("", string(spdxID)),
			Relationship: "DESCRIBES",
		})
	}
	return doc
}

// The SPDX 2.3 JSON layout. Field names follow the published schema.
type (
	spdxDocJSON struct {
		SPDXVersion       string             `json:"spdxVersion"`
		DataLicense       string             `json:"dataLicense"`
		SPDXID            string             `json:"SPDXID"`
		Name              string             `json:"name"`
		DocumentNamespace string             `json:"documentNamespace"`
		CreationInfo      spdxCreationJSON   `json:"creationInfo"`
		Packages          []spdxPackageJSON  `json:"packages"`
		Relationships     []spdxRelationJSON `json:"relationships"`
	}
	spdxCreationJSON struct {
		Created  string   `json:"created"`
		Creators []string `json:"creators"`
	}
	spdxPackageJSON struct {
		SPDXID           string           `json:"SPDXID"`
		Name             string           `json:"name"`
		VersionInfo      string           `json:"versionInfo"`
		DownloadLocation string           `json:"downloadLocation"`
		LicenseDeclared  string           `json:"licenseDeclared"`
		LicenseConcluded string           `json:"licenseConcluded"`
		CopyrightText    string           `json:"copyrightText"`
		FilesAnalyzed    bool             `json:"filesAnalyzed"`
		ExternalRefs     []spdxExtRefJSON `json:"externalRefs,omitempty"`
		Comment          string           `json:"comment,omitempty"`
	}
	spdxExtRefJSON struct {
		ReferenceCategory string `json:"referenceCategory"`
		ReferenceType     string `json:"referenceType"`
		ReferenceLocator  string `json:"referenceLocator"`
	}
	spdxRelationJSON struct {
		SPDXElementID      string `json:"spdxElementId"`
		RelationshipType   string `json:"relationshipType"`
		RelatedSPDXElement string `json:"relatedSpdxElement"`
	}
)

func spdxJSON(doc *spdx23.Document) ([]byte, error) {
	out := spdxDocJSON{
		SPDXVersion:       doc.SPDXVersion,
		DataLicense:       doc.DataLicense,
		SPDXID:            sbom.FormatSPDXRef(string(doc.SPDXIdentifier)),
		Name:              doc.DocumentName,
		DocumentNamespace: doc.DocumentNamespace,
		CreationInfo:      spdxCreationJSON{Created: doc.CreationInfo.Created},
		Packages:          []spdxPackageJSON{},
		Relationships:     []spdxRelationJSON{},
	}
	for _, c := range doc.CreationInfo.Creators {
		out.CreationInfo.Creators = append(out.CreationInfo.Creators, fmt.Sprintf("%s: %s", c.CreatorType, c.Creator))
	}
	for _, p := range doc.Packages {
		pj := spdxPackageJSON{
			SPDXID:           sbom.FormatSPDXRef(string(p.PackageSPDXIdentifier)),
			Name:             p.PackageName,
			VersionInfo:      p.PackageVersion,
			DownloadLocation: p.PackageDownloadLocation,
			LicenseDeclared:  p.PackageLicenseDeclared,
			LicenseConcluded: p.PackageLicenseConcluded,
			CopyrightText:    p.PackageCopyrightText,
			FilesAnalyzed:    p.FilesAnalyzed,
			Comment:          p.PackageComment,
		}
		for _, ref := range p.PackageExternalReferences {
			pj.ExternalRefs = append(pj.ExternalRefs, spdxExtRefJSON{
				ReferenceCategory: string(ref.Category),
				ReferenceType:     ref.RefType,
				ReferenceLocator:  ref.Locator,
			})
		}
		out.Packages = append(out.Packages, pj)
	}
	for _, r := range doc.Relationships {
		out.Relationships = append(out.Relationships, spdxRelationJSON{
			SPDXElementID:      sbom.FormatSPDXRef(string(r.RefA.ElementRefID)),
			RelationshipType:   r.Relationship,
			RelatedSPDXElement: sbom.FormatSPDXRef(string(r.RefB.ElementRefID)),
		})
	}
	return json.MarshalIndent(out, "", "  ")
}
