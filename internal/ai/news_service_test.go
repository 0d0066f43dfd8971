package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bilgisen/regionews/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	credential bool
	result     *GenerateResult
	err        error
	block      bool
	calls      []GenerateRequest
}

func (f *fakeGenerator) HasCredential() bool { return f.credential }

func (f *fakeGenerator) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	f.calls = append(f.calls, req)
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.result, f.err
}

func newTestService(gen Generator) *NewsService {
	return NewNewsService(gen, ServiceConfig{
		Timeout:  time.Second,
		Location: time.UTC,
		Now:      func() time.Time { return fixedTime },
	})
}

func TestFetchRegionalNewsScenario(t *testing.T) {
	gen := &fakeGenerator{
		credential: true,
		result:     &GenerateResult{Text: `Here: [{"title":"T1","summary":"S1","telegramPostDraft":"D1"}]`},
	}

	items, err := newTestService(gen).FetchRegionalNews(context.Background(), "DNR")
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, "T1", items[0].Title)
	assert.Equal(t, "S1", items[0].Summary)
	assert.Equal(t, "D1", items[0].TelegramPostDraft)
	assert.Equal(t, PlaceholderSource, items[0].Source)
	assert.Empty(t, items[0].URL)
	assert.True(t, strings.HasPrefix(items[0].ID, "DNR-"))

	require.Len(t, gen.calls, 1)
	call := gen.calls[0]
	assert.True(t, call.SearchGrounding)
	assert.Equal(t, SystemInstruction, call.SystemInstruction)
	assert.Contains(t, call.Prompt, "Донецкая Народная Республика")
}

func TestFetchRegionalNewsCitationFallback(t *testing.T) {
	gen := &fakeGenerator{
		credential: true,
		result: &GenerateResult{
			Text: "```json\n[{\"title\":\"A\"},{\"title\":\"B\",\"source\":\"ТАСС\"}]\n```",
			Citations: []models.Citation{
				{Address: "https://example.org/a"},
				{Address: "https://example.org/b"},
			},
		},
	}

	items, err := newTestService(gen).FetchRegionalNews(context.Background(), "lnr")
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "https://example.org/a", items[0].Source)
	assert.Equal(t, "https://example.org/a", items[0].URL)
	assert.Equal(t, "ТАСС", items[1].Source)
	assert.Empty(t, items[1].URL)
	assert.True(t, strings.HasPrefix(items[0].ID, "LNR-"))
}

func TestFetchRegionalNewsNoStructuredData(t *testing.T) {
	gen := &fakeGenerator{
		credential: true,
		result:     &GenerateResult{Text: "К сожалению, новостей не найдено."},
	}

	items, err := newTestService(gen).FetchRegionalNews(context.Background(), "ZO")
	require.NoError(t, err)
	require.NotNil(t, items)
	assert.Empty(t, items)
}

func TestFetchRegionalNewsMalformed(t *testing.T) {
	gen := &fakeGenerator{
		credential: true,
		result:     &GenerateResult{Text: `[{"title": "x",]`},
	}

	items, err := newTestService(gen).FetchRegionalNews(context.Background(), "HO")
	assert.Nil(t, items)
	assert.ErrorIs(t, err, ErrMalformedData)
}

func TestFetchRegionalNewsMissingCredential(t *testing.T) {
	gen := &fakeGenerator{credential: false}

	_, err := newTestService(gen).FetchRegionalNews(context.Background(), "DNR")
	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.Empty(t, gen.calls, "no network call expected without a credential")
}

func TestFetchRegionalNewsUnknownRegion(t *testing.T) {
	gen := &fakeGenerator{credential: true}

	_, err := newTestService(gen).FetchRegionalNews(context.Background(), "XYZ")
	assert.ErrorIs(t, err, ErrUnknownRegion)
	assert.Empty(t, gen.calls)
}

func TestFetchRegionalNewsProviderError(t *testing.T) {
	gen := &fakeGenerator{credential: true, err: errors.New("API error (status 429): quota exceeded")}

	_, err := newTestService(gen).FetchRegionalNews(context.Background(), "DNR")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProviderError)
	assert.Contains(t, err.Error(), "quota exceeded")

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Len(t, gen.calls, 1, "no internal retry")
}

func TestFetchRegionalNewsTimeoutIsProviderError(t *testing.T) {
	gen := &fakeGenerator{credential: true, block: true}
	svc := NewNewsService(gen, ServiceConfig{Timeout: 20 * time.Millisecond})

	_, err := svc.FetchRegionalNews(context.Background(), "DNR")
	assert.ErrorIs(t, err, ErrProviderError)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGenerateScript(t *testing.T) {
	gen := &fakeGenerator{
		credential: true,
		result:     &GenerateResult{Text: "\n  Добро пожаловать!  \n"},
	}

	script, err := newTestService(gen).GenerateScript(context.Background(), models.ScriptRequest{
		Topic: "Открытие парка",
		Tone:  "Warm",
	})
	require.NoError(t, err)
	assert.Equal(t, "Добро пожаловать!", script)

	require.Len(t, gen.calls, 1)
	assert.False(t, gen.calls[0].SearchGrounding)
	assert.Contains(t, gen.calls[0].Prompt, "Topic: Открытие парка")
	assert.Contains(t, gen.calls[0].Prompt, "Tone: Warm")
	assert.Contains(t, gen.calls[0].Prompt, "for a Commercial")
}

func TestGenerateScriptMissingCredential(t *testing.T) {
	_, err := newTestService(&fakeGenerator{}).GenerateScript(context.Background(), models.ScriptRequest{Topic: "x"})
	assert.ErrorIs(t, err, ErrMissingCredential)
}
