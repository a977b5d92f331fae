package report

import (
	"context"
	"fmt"
	"testing"

	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/config"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/layout"
	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsFromConfigDefaults(t *testing.T) {
	opts := OptionsFromConfig(config.Defaults().Report)
	assert.Equal(t, DefaultOptions(), opts)
}

func TestOptionsFromConfigOverrides(t *testing.T) {
	rc := config.ReportConfig{
		PageSize:      "Letter",
		Orientation:   "L",
		Margins:       config.MarginsConfig{Top: 10, Right: 10, Bottom: 12, Left: 10},
		Brand:         "Acme",
		Author:        "Talent Team",
		MaxExchanges:  2,
		MaxFlowIssues: 1,
	}
	opts := OptionsFromConfig(rc)

	assert.Equal(t, "Letter", opts.PageSize)
	assert.Equal(t, "L", opts.Orientation)
	assert.Equal(t, layout.Margins{Top: 10, Right: 10, Bottom: 12, Left: 10}, opts.Margins)
	assert.Equal(t, "Acme", opts.Brand)
	assert.Equal(t, "Talent Team", opts.Author)
	assert.Equal(t, 2, opts.MaxExchanges)
	assert.Equal(t, 1, opts.MaxFlowIssues)
	assert.Equal(t, 5, opts.MaxRecommendations, "unset limits keep defaults")
	assert.Equal(t, layout.DefaultMetrics(), opts.Metrics)
}

func TestZeroLimitsKeepDefaultCaps(t *testing.T) {
	rc := config.Defaults().Report
	rc.MaxFlowIssues = 0
	rc.MaxExchanges = 0

	opts := OptionsFromConfig(rc)
	assert.Equal(t, 3, opts.MaxFlowIssues)
	assert.Equal(t, 5, opts.MaxExchanges)

	in := longInput(7)
	in.Flow = &types.FlowAnalysis{}
	for i := range 6 {
		in.Flow.Issues = append(in.Flow.Issues, types.FlowIssue{Text: fmt.Sprintf("issue-%d", i+1), Severity: types.SeverityHigh})
	}

	r, rec := newRecordingRenderer(opts)
	_, err := r.Render(context.Background(), in, fixedRender)
	require.NoError(t, err)

	assert.True(t, rec.Contains("issue-3"))
	assert.False(t, rec.Contains("issue-4"))
	assert.True(t, rec.Contains("Q5."))
	assert.False(t, rec.Contains("Q6."))
}

func TestRendererAppliesLimitsToDirectOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxFlowIssues = 0
	opts.MaxExchanges = -1
	opts.MaxRecommendations = 0

	r := NewRenderer(opts, nil)
	got := r.Options()
	assert.Equal(t, 3, got.MaxFlowIssues)
	assert.Equal(t, 5, got.MaxExchanges)
	assert.Equal(t, 5, got.MaxRecommendations)
}
