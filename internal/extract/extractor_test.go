package extract

import (
	"context"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dxpulse/plct-cli/internal/config"
	"github.com/dxpulse/plct-cli/pkg/anthropic"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

// fakeClient returns scripted responses in order. A nil entry in errs means
// the call succeeds with the corresponding response text.
type fakeClient struct {
	responses []string
	errs      []error
	calls     int
	lastReq   anthropic.MessageRequest
}

func (f *fakeClient) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	i := f.calls
	f.calls++
	f.lastReq = req

	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	text := ""
	if i < len(f.responses) {
		text = f.responses[i]
	}
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
	}, nil
}

func testExtractor(client anthropic.Client) *Extractor {
	return New(client,
		config.AnthropicConfig{Model: "claude-sonnet-4-5-20250929", MaxTokens: 16384, RequestsPerMinute: 600000},
		config.ExtractConfig{MaxAttempts: 3, InitialBackoffMs: 1, MaxBackoffMs: 2},
	)
}

const minimalPayload = `[{"CompanyName":"Acme Bhd","CompanySector":"Technology","Initiatives":[]}]`

func TestExtract_ParsesCompanies(t *testing.T) {
	client := &fakeClient{responses: []string{minimalPayload}}
	ex := testExtractor(client)

	companies, err := ex.Extract(context.Background(), "report text", "acme_2023.pdf")
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, "Acme Bhd", companies[0].CompanyName.String())
	assert.Equal(t, 1, client.calls)
	assert.Contains(t, client.lastReq.Messages[0].Content, "acme_2023.pdf")
}

func TestExtract_UnwrapsCodeFence(t *testing.T) {
	client := &fakeClient{responses: []string{"```json\n" + minimalPayload + "\n```"}}
	ex := testExtractor(client)

	companies, err := ex.Extract(context.Background(), "text", "a.pdf")
	require.NoError(t, err)
	require.Len(t, companies, 1)
}

func TestExtract_StripsSurroundingProse(t *testing.T) {
	client := &fakeClient{responses: []string{"Here is the extraction:\n" + minimalPayload + "\nLet me know if you need more."}}
	ex := testExtractor(client)

	companies, err := ex.Extract(context.Background(), "text", "a.pdf")
	require.NoError(t, err)
	require.Len(t, companies, 1)
}

func TestExtract_RetriesEmptyResponse(t *testing.T) {
	client := &fakeClient{responses: []string{"", minimalPayload}}
	ex := testExtractor(client)

	companies, err := ex.Extract(context.Background(), "text", "a.pdf")
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, 2, client.calls)
}

func TestExtract_RetriesTransientError(t *testing.T) {
	client := &fakeClient{
		errs:      []error{eris.New("rate limit exceeded"), nil},
		responses: []string{"", minimalPayload},
	}
	ex := testExtractor(client)

	companies, err := ex.Extract(context.Background(), "text", "a.pdf")
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, 2, client.calls)
}

func TestExtract_MalformedJSONDropsDocument(t *testing.T) {
	client := &fakeClient{responses: []string{`{"not": "an array"}`}}
	ex := testExtractor(client)

	companies, err := ex.Extract(context.Background(), "text", "a.pdf")
	require.NoError(t, err)
	assert.Empty(t, companies)
	// Malformed content is not a transport failure, so no retry.
	assert.Equal(t, 1, client.calls)
}

func TestExtract_ExhaustedRetriesDropsDocument(t *testing.T) {
	client := &fakeClient{responses: []string{"", "", ""}}
	ex := testExtractor(client)

	companies, err := ex.Extract(context.Background(), "text", "a.pdf")
	require.NoError(t, err)
	assert.Empty(t, companies)
	assert.Equal(t, 3, client.calls)
}

func TestExtract_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &fakeClient{errs: []error{context.Canceled}}
	ex := testExtractor(client)

	_, err := ex.Extract(ctx, "text", "a.pdf")
	require.Error(t, err)
}

func TestBuildPrompt_TruncatesDocument(t *testing.T) {
	text := strings.Repeat("x", maxDocumentChars+5000)
	p := BuildPrompt(text, "big.pdf")
	assert.Less(t, len(p), len(promptIntro)+len("big.pdf")+len(promptFramework)+maxDocumentChars+1)
	assert.Contains(t, p, "big.pdf")
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	a := BuildPrompt("same text", "f.pdf")
	b := BuildPrompt("same text", "f.pdf")
	assert.Equal(t, a, b)
	assert.Contains(t, a, "PLCT FRAMEWORK OVERVIEW")
	assert.Contains(t, a, "DISCLOSURE QUALITY SCORING")
}

func TestCleanJSONArray(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"```json\n[1,2]\n```", "[1,2]"},
		{"```\n[1,2]\n```", "[1,2]"},
		{"prose [1,2] trailing", "[1,2]"},
		{"[1,2]", "[1,2]"},
		{"no json here", "no json here"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, cleanJSONArray(tc.in), tc.in)
	}
}
