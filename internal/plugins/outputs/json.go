package outputs

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/EmundoT/rebase-helper/internal/plugins"
	"github.com/EmundoT/rebase-helper/internal/types"
)

// JSON writes report.json. Object keys come out sorted, so identical runs
// produce identical files.
type JSON struct {
	plugins.Info
}

func NewJSON() *JSON {
	return &JSON{Info: plugins.Info{PluginName: "json"}}
}

func (j *JSON) Extension() string { return "json" }

func (j *JSON) Render(w io.Writer, rep *types.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(rep)
}

func (j *JSON) PrintSummary(w io.Writer, rep *types.Report, color bool) error {
	var b strings.Builder
	printSummary(&b, rep, color, reportPath(rep, j.Extension()))
	_, err := io.WriteString(w, b.String())
	return err
}
