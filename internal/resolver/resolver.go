// Package resolver decides how a user question is answered: from the fixed
// table of canonical executive questions, or by delegating to the
// natural-language answering service with the database data dictionary as
// context.
package resolver

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Source labels where a resolved answer came from.
type Source string

const (
	// SourceCanned means the answer was served from the canonical Q&A table.
	SourceCanned Source = "canned"
	// SourceAgent means the answer was produced by the answering service.
	SourceAgent Source = "agent"
	// SourceError means the answering service failed and the answer is an
	// error message.
	SourceError Source = "error"
)

// Answerer is the external natural-language answering service. It receives
// the full delegated prompt (schema context plus the user's question) and
// returns free text.
type Answerer interface {
	Answer(ctx context.Context, prompt string) (string, error)
}

// Resolver routes questions between the canonical Q&A table and the
// answering service. It is stateless across calls; the canonical table and
// schema context are immutable after construction, so concurrent use is safe.
type Resolver struct {
	answerer Answerer
	canned   map[string]string
	logger   *slog.Logger
}

// New creates a Resolver delegating non-canonical questions to the given
// answering service.
func New(answerer Answerer, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Resolver{
		answerer: answerer,
		canned:   canonicalAnswers(),
		logger:   logger.With("component", "resolver"),
	}
}

// Normalize produces the canonical-table lookup key for a question:
// surrounding whitespace is trimmed and the text is case-folded. The original
// question text is preserved for delegation.
func Normalize(question string) string {
	return strings.ToLower(strings.TrimSpace(question))
}

// Resolve answers a question. Canonical questions (exact match after
// normalization) return their fixed answer without invoking the answering
// service. Everything else is delegated once, with the schema context
// prepended to the original question text. Any delegation failure is folded
// into an "Error: <message>" answer; Resolve never returns an error itself.
func (r *Resolver) Resolve(ctx context.Context, question string) (string, Source) {
	key := Normalize(question)

	if answer, ok := r.canned[key]; ok {
		r.logger.InfoContext(ctx, "Answered from canonical table", "question", key)
		return answer, SourceCanned
	}

	prompt := SchemaContext + "\n\n" + question

	answer, err := r.answerer.Answer(ctx, prompt)
	if err != nil {
		r.logger.ErrorContext(ctx, "Answering service failed", "error", err)
		return fmt.Sprintf("Error: %s", err.Error()), SourceError
	}

	return answer, SourceAgent
}

// canonicalAnswers builds the fixed executive Q&A table. Keys are already in
// normalized form.
func canonicalAnswers() map[string]string {
	return map[string]string{
		"which area will have a high impact for future floods": "Based on our historical data and current forecasting models, " +
			"the areas that exhibit the highest vulnerability to future flood events " +
			"are **Al Adlah**, **Al Nahdah**, **Bu Deeb**, and **Al Haffar**. " +
			"These locations consistently appear in our inundation forecasts due to " +
			"their geographical profiles and proximity to low-lying flood plains.",

		"recommendation to reduce impact": "To mitigate the risk in these high-impact areas, we recommend an integrated approach:\n\n" +
			"1. **Infrastructure Upgrades**: Enhance and maintain drainage systems, and consider building " +
			"   protective levees or flood barriers.\n" +
			"2. **Smart Monitoring**: Install additional rainfall gauges and flood sensors for real-time monitoring.\n" +
			"3. **Urban Planning**: Implement zoning regulations to limit construction in flood-prone zones.\n" +
			"4. **Community Preparedness**: Conduct regular flood drills, ensure early-warning systems are in place, " +
			"   and provide public education on emergency response.",

		"why are these areas impacted": "These regions are particularly vulnerable due to a combination of factors:\n\n" +
			"- **Topography**: Areas like Al Adlah and Al Nahdah have lower elevations, causing water to accumulate.\n" +
			"- **Coastal Proximity**: Bu Deeb is near a coastal plain, making it susceptible to storm surges.\n" +
			"- **Drainage and Infrastructure**: Al Haffar’s drainage systems may require updates to handle heavy rainfall.\n" +
			"- **Historical Patterns**: Data shows these areas have experienced recurring flood incidents, " +
			"   indicating underlying vulnerabilities that require focused intervention.",
	}
}
