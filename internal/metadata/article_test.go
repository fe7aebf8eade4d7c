package metadata_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	infralogger "github.com/jonesrussell/north-cloud/content-feed/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/content-feed/internal/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractArticleMetadata(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		html      string
		wantTitle *string
		wantDesc  *string
		wantThumb *string
	}{
		{
			name: "open graph tags",
			html: `<head><meta property="og:title" content="Hello World">` +
				`<meta property="og:description" content="A post">` +
				`<meta property="og:image" content="https://blog.example.com/a.jpg"></head>`,
			wantTitle: strPtr("Hello World"),
			wantDesc:  strPtr("A post"),
			wantThumb: strPtr("https://blog.example.com/a.jpg"),
		},
		{
			name:      "single quotes and mixed case",
			html:      `<META PROPERTY='og:title' CONTENT='Shouting'>`,
			wantTitle: strPtr("Shouting"),
		},
		{
			name:      "fallback to named meta",
			html:      `<meta name="title" content="Plain"><meta name="description" content="Plain desc">`,
			wantTitle: strPtr("Plain"),
			wantDesc:  strPtr("Plain desc"),
		},
		{
			name:      "og wins over named meta",
			html:      `<meta name="description" content="named"><meta property="og:description" content="og">`,
			wantDesc:  strPtr("og"),
			wantTitle: nil,
		},
		{
			name:      "empty og falls back",
			html:      `<meta property="og:title" content=""><meta name="title" content="Fallback">`,
			wantTitle: strPtr("Fallback"),
		},
		{
			name:      "entities decoded",
			html:      `<meta property="og:title" content="Tom &amp; Jerry&#39;s &quot;Caf&eacute;&quot; &#x2014; live">`,
			wantTitle: strPtr(`Tom & Jerry's "Café" — live`),
		},
		{
			name: "content before property is not matched",
			html: `<meta content="Reversed" property="og:title">`,
		},
		{
			name: "no thumbnail fallback",
			html: `<meta name="image" content="https://blog.example.com/b.jpg">`,
		},
		{
			name: "tag split over lines is not matched",
			html: "<meta property=\"og:title\"\ncontent=\"Split\">",
		},
		{
			name: "no tags",
			html: `<html><head><title>Ignored</title></head></html>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			md := metadata.ExtractArticleMetadata([]byte(tt.html))
			assert.Equal(t, tt.wantTitle, md.Title)
			assert.Equal(t, tt.wantDesc, md.Description)
			assert.Equal(t, tt.wantThumb, md.Thumbnail)
		})
	}
}

func TestTruncateText(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 600)
	got := metadata.TruncateText(long, metadata.MaxDescriptionLength)
	assert.Equal(t, 503, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "..."))

	exact := strings.Repeat("b", 500)
	assert.Equal(t, exact, metadata.TruncateText(exact, metadata.MaxDescriptionLength))

	multibyte := strings.Repeat("é", 501)
	assert.Equal(t, strings.Repeat("é", 500)+"...", metadata.TruncateText(multibyte, metadata.MaxDescriptionLength))
}

func TestArticleResolver_Resolve(t *testing.T) {
	t.Parallel()

	desc := strings.Repeat("d", 600)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<meta property="og:title" content="Post">` +
			`<meta property="og:description" content="` + desc + `">`))
	}))
	t.Cleanup(srv.Close)

	log := infralogger.NewNop()
	r := metadata.NewArticleResolver(metadata.NewFetcher(metadata.FetcherConfig{}, log, nil), log)

	md := r.Resolve(context.Background(), srv.URL)
	require.NotNil(t, md.Title)
	assert.Equal(t, "Post", *md.Title)
	require.NotNil(t, md.Description)
	assert.Len(t, *md.Description, 503)
	assert.Nil(t, md.Thumbnail)
}

func TestArticleResolver_EmptyOnFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<meta property="og:title" content="Error page">`))
	}))
	t.Cleanup(srv.Close)

	log := infralogger.NewNop()
	r := metadata.NewArticleResolver(metadata.NewFetcher(metadata.FetcherConfig{}, log, nil), log)

	assert.True(t, r.Resolve(context.Background(), srv.URL).IsEmpty())
}
