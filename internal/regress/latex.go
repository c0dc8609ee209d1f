package regress

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"lapanel.civiljustice.org.uk/internal/logging"
)

var texEscaper = strings.NewReplacer("_", "\\_", "%", "\\%", "&", "\\&")

// stars marks conventional significance levels.
func stars(p float64) string {
	switch {
	case p < 0.01:
		return "***"
	case p < 0.05:
		return "**"
	case p < 0.1:
		return "*"
	default:
		return ""
	}
}

// WriteTex writes the fitted model as a LaTeX coefficient table. Quarter
// fixed effects are absorbed into a single footnote line rather than listed,
// keeping the tables readable across forty quarters.
func WriteTex(path, title string, fit *Fit, logger *slog.Logger) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating regression directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("\\begin{table}[htbp]\n\\centering\n")
	fmt.Fprintf(&b, "\\caption{%s}\n", texEscaper.Replace(title))
	b.WriteString("\\begin{tabular}{lrrrr}\n\\hline\n")
	b.WriteString(" & Coef. & Std. Err. & $z$ & $P>|z|$ \\\\\n\\hline\n")

	quarterFE := false
	for i, name := range fit.Names {
		if strings.HasPrefix(name, "quarter_") {
			quarterFE = true
			continue
		}
		fmt.Fprintf(&b, "%s%s & %.4f & %.4f & %.3f & %.3f \\\\\n",
			texEscaper.Replace(name), stars(fit.PValue(i)),
			fit.Coef[i], fit.SE[i], fit.ZStat(i), fit.PValue(i))
	}

	b.WriteString("\\hline\n")
	if quarterFE {
		b.WriteString("Quarter fixed effects & \\multicolumn{4}{r}{Yes} \\\\\n")
	}
	fmt.Fprintf(&b, "Observations & \\multicolumn{4}{r}{%d} \\\\\n", fit.N)
	fmt.Fprintf(&b, "Clusters (districts) & \\multicolumn{4}{r}{%d} \\\\\n", fit.Clusters)
	if fit.RSquared != 0 {
		fmt.Fprintf(&b, "$R^2$ & \\multicolumn{4}{r}{%.3f} \\\\\n", fit.RSquared)
	}
	b.WriteString("\\hline\n")
	b.WriteString("\\multicolumn{5}{l}{\\footnotesize Standard errors clustered by local authority.} \\\\\n")
	b.WriteString("\\multicolumn{5}{l}{\\footnotesize $^{*}p<0.1$; $^{**}p<0.05$; $^{***}p<0.01$.} \\\\\n")
	b.WriteString("\\end{tabular}\n\\end{table}\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	logging.LogOperation(logger, "regression table written", slog.String("path", path))

	return nil
}
