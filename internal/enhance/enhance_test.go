package enhance

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simonwafula/Nextstepjobs/internal/extract"
	"github.com/Simonwafula/Nextstepjobs/internal/llm"
)

type fakeClient struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.GenerateJSON(ctx, prompt, tier)
}

func (f *fakeClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeClient) GetModel(tier llm.ModelTier) string { return "fake-model" }
func (f *fakeClient) Close() error                       { return nil }

func sampleFields() extract.Fields {
	return extract.Fields{
		Title:       "Backend Engineer",
		Company:     "Savannah Software Ltd",
		Location:    "Nairobi, Kenya",
		JobType:     "Full-Time",
		Skills:      []string{"Go", "PostgreSQL"},
		Description: "Build and operate backend services.",
		FullText:    "Build and operate backend services for our logistics platform.",
	}
}

func TestEnhance_ParsesModelOutput(t *testing.T) {
	client := &fakeClient{response: `{
		"skills_analysis": ["Go", "PostgreSQL", "Kubernetes"],
		"experience_summary": "3+ years backend experience",
		"role_level": "Mid",
		"remote_friendly": true,
		"growth_potential": "High",
		"industry_category": "Logistics",
		"key_responsibilities": ["Design APIs", "Operate services"]
	}`}
	enhancer := NewEnhancer(client, false)

	result := enhancer.Enhance(context.Background(), sampleFields())

	require.True(t, result.Parsed)
	assert.Equal(t, []string{"Go", "PostgreSQL", "Kubernetes"}, result.SkillsAnalysis)
	assert.Equal(t, "Mid", result.RoleLevel)
	assert.True(t, result.RemoteFriendly)
	assert.Equal(t, []string{"Design APIs", "Operate services"}, result.KeyResponsibilities)
}

func TestEnhance_ModelFailureReturnsUnparsed(t *testing.T) {
	client := &fakeClient{err: errors.New("model unavailable")}
	enhancer := NewEnhancer(client, false)

	result := enhancer.Enhance(context.Background(), sampleFields())

	assert.False(t, result.Parsed)
	assert.Empty(t, result.SkillsAnalysis)
}

func TestEnhance_UnparseableOutputKeepsTruncatedSummary(t *testing.T) {
	long := "Here is my analysis of the role: "
	for len(long) <= maxSummaryLength {
		long += "it is a promising position with growth. "
	}
	client := &fakeClient{response: long}
	enhancer := NewEnhancer(client, false)

	result := enhancer.Enhance(context.Background(), sampleFields())

	assert.False(t, result.Parsed)
	assert.Len(t, result.Summary, maxSummaryLength)
	assert.Contains(t, result.Summary, "Here is my analysis")
}

func TestEnhance_PromptCarriesExtractedContext(t *testing.T) {
	client := &fakeClient{response: `{"skills_analysis": [], "role_level": "Mid", "remote_friendly": false, "key_responsibilities": []}`}
	enhancer := NewEnhancer(client, false)

	enhancer.Enhance(context.Background(), sampleFields())

	require.Len(t, client.prompts, 1)
	prompt := client.prompts[0]
	assert.Contains(t, prompt, "Backend Engineer")
	assert.Contains(t, prompt, "Savannah Software Ltd")
	assert.Contains(t, prompt, "Go, PostgreSQL")
	assert.Contains(t, prompt, "logistics platform")
}
