package report

import (
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/config"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/layout"
)

// OptionsFromConfig maps the report section of the configuration onto
// renderer options. Typography always uses the house metrics, and a zero
// limit keeps the default cap.
func OptionsFromConfig(rc config.ReportConfig) Options {
	opts := DefaultOptions()

	if rc.PageSize != "" {
		opts.PageSize = rc.PageSize
	}
	if rc.Orientation != "" {
		opts.Orientation = rc.Orientation
	}
	if m := rc.Margins; m != (config.MarginsConfig{}) {
		opts.Margins = layout.Margins{Top: m.Top, Right: m.Right, Bottom: m.Bottom, Left: m.Left}
	}
	if rc.Brand != "" {
		opts.Brand = rc.Brand
	}
	opts.Author = rc.Author

	if rc.MaxRecommendations > 0 {
		opts.MaxRecommendations = rc.MaxRecommendations
	}
	if rc.RecommendationMaxChars > 0 {
		opts.RecommendationMaxChars = rc.RecommendationMaxChars
	}
	if rc.SummaryPoints > 0 {
		opts.SummaryPoints = rc.SummaryPoints
	}
	if rc.MaxFlowIssues > 0 {
		opts.MaxFlowIssues = rc.MaxFlowIssues
	}
	if rc.MaxExchanges > 0 {
		opts.MaxExchanges = rc.MaxExchanges
	}
	if rc.AnswerMaxChars > 0 {
		opts.AnswerMaxChars = rc.AnswerMaxChars
	}
	return opts
}

// WithLimits replaces non-positive caps with the defaults. Every list in a
// report is capped; there is no unlimited setting.
func (o Options) WithLimits() Options {
	def := DefaultOptions()
	if o.MaxRecommendations <= 0 {
		o.MaxRecommendations = def.MaxRecommendations
	}
	if o.RecommendationMaxChars <= 3 {
		o.RecommendationMaxChars = def.RecommendationMaxChars
	}
	if o.MaxFlowIssues <= 0 {
		o.MaxFlowIssues = def.MaxFlowIssues
	}
	if o.SummaryPoints <= 0 {
		o.SummaryPoints = def.SummaryPoints
	}
	if o.MaxExchanges <= 0 {
		o.MaxExchanges = def.MaxExchanges
	}
	if o.AnswerMaxChars <= 0 {
		o.AnswerMaxChars = def.AnswerMaxChars
	}
	return o
}
